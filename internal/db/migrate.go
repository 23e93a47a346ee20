package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/hakwonplus/academy-db/internal/metrics"
	"github.com/hakwonplus/academy-db/internal/observability"
)

type StepStatus string

const (
	StatusApplied StepStatus = "applied"
	StatusSkipped StepStatus = "skipped"
	StatusFailed  StepStatus = "failed"
)

// Step — 순서 있는 마이그레이션 단계 하나. 목록의 순서가 곧 의존성 그래프다:
// 뒤 단계가 앞 단계의 테이블을 참조하므로 재배열하면 안 된다.
type Step struct {
	Name string
	Run  func(ctx context.Context, database *sql.DB) error
}

type StepResult struct {
	Name   string
	Status StepStatus
	Reason string // skipped 일 때만
	Err    error  // failed 일 때만
}

type Report struct {
	Results  []StepResult
	Started  time.Time
	Finished time.Time
}

func (r *Report) count(s StepStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) Applied() int { return r.count(StatusApplied) }
func (r *Report) Skipped() int { return r.count(StatusSkipped) }
func (r *Report) Failed() int  { return r.count(StatusFailed) }

// OK — 실패 단계가 하나도 없으면 true. 재실행 안전성 검증의 기준.
func (r *Report) OK() bool { return r.Failed() == 0 }

func (r *Report) Summary() string {
	return fmt.Sprintf("applied=%d skipped=%d failed=%d (%.2fs)",
		r.Applied(), r.Skipped(), r.Failed(), r.Finished.Sub(r.Started).Seconds())
}

// skipError — 단계가 스스로 "할 일 없음" 을 선언할 때 쓰는 센티널.
type skipError struct{ reason string }

func (e skipError) Error() string { return e.reason }

func Skip(reason string) error { return skipError{reason: reason} }

// MySQL 의 객체 중복 오류들. 재실행 시 정상이므로 skipped 로 분류한다.
var benignErrNums = map[uint16]string{
	1007: "database already exists",
	1022: "duplicate key in table",
	1050: "table already exists",
	1060: "duplicate column",
	1061: "duplicate key name",
	1062: "duplicate entry",
	1091: "object to drop does not exist",
	1826: "duplicate foreign key constraint",
}

// Classify — 단계 오류를 Applied / Skipped / Failed 로 분류.
func Classify(err error) (StepStatus, string) {
	if err == nil {
		return StatusApplied, ""
	}
	var se skipError
	if errors.As(err, &se) {
		return StatusSkipped, se.reason
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		if reason, ok := benignErrNums[me.Number]; ok {
			return StatusSkipped, reason
		}
	}
	return StatusFailed, ""
}

func execStep(name, query string) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context, database *sql.DB) error {
			_, err := database.ExecContext(ctx, query)
			return err
		},
	}
}

// Steps — 전체 마이그레이션 순서.
// 생성 → 후기 추가 컬럼 → 레거시 정리 → FK → 카운터 재계산.
func Steps() []Step {
	return []Step{
		execStep("create users", createUsers),
		execStep("create students", createStudents),
		execStep("create instructors", createInstructors),
		execStep("create lectures", createLectures),
		execStep("create student_lectures", createStudentLectures),
		execStep("create instructor_lectures", createInstructorLectures),
		execStep("create attendance_records", createAttendanceRecords),

		// 운영 중 늦게 추가된 컬럼들. 최신 DDL 로 만든 DB 에서는 1060 으로 skip 된다.
		execStep("users: add last_login_at",
			`ALTER TABLE users ADD COLUMN last_login_at DATETIME NULL`),
		execStep("students: add auto_study_msg",
			`ALTER TABLE students ADD COLUMN auto_study_msg TINYINT(1) NOT NULL DEFAULT 0`),
		execStep("lectures: add room",
			`ALTER TABLE lectures ADD COLUMN room VARCHAR(50) NOT NULL DEFAULT ''`),
		execStep("attendance_records: add thumbnail",
			`ALTER TABLE attendance_records ADD COLUMN thumbnail MEDIUMTEXT NULL`),

		{Name: "consolidate legacy teachers into instructors", Run: consolidateTeachers},
		{Name: "migrate student_lectures.lecture_id to BIGINT", Run: migrateLegacyLectureIDs},

		// 레거시 판본엔 유일키가 없던 시기가 있다. 최신 DB 에선 1061 로 skip.
		execStep("student_lectures: ensure unique (student, lecture)",
			`ALTER TABLE student_lectures ADD UNIQUE KEY uq_student_lecture (student_id, lecture_id)`),

		execStep("lectures: add instructor foreign key",
			`ALTER TABLE lectures ADD CONSTRAINT fk_lectures_instructor
			 FOREIGN KEY (instructor_id) REFERENCES instructors(id) ON DELETE SET NULL`),

		{Name: "recount lectures.current_students", Run: func(ctx context.Context, database *sql.DB) error {
			_, err := RecountAllLectures(ctx, database)
			return err
		}},
	}
}

// Migrate — 단계들을 선언 순서대로 실행한다. 단계 실패는 기록만 하고 계속
// 진행한다 (best-effort). 치명적인 것은 접속 단절뿐이며 그 경우 이후 단계도
// 전부 failed 로 떨어져 Report 에 드러난다.
func Migrate(ctx context.Context, database *sql.DB, lg *zap.SugaredLogger) *Report {
	report := &Report{Started: time.Now()}
	for _, step := range Steps() {
		err := step.Run(ctx, database)
		status, reason := Classify(err)
		res := StepResult{Name: step.Name, Status: status, Reason: reason}
		if status == StatusFailed {
			res.Err = err
		}
		report.Results = append(report.Results, res)
		metrics.MigrationSteps.WithLabelValues(string(status)).Inc()

		switch status {
		case StatusApplied:
			lg.Infof("✅ %s", step.Name)
		case StatusSkipped:
			lg.Infof("ℹ️ %s — %s", step.Name, reason)
		case StatusFailed:
			lg.Errorf("❌ %s: %v", step.Name, err)
			observability.CaptureStepFailure(step.Name, err)
		}
	}
	report.Finished = time.Now()
	lg.Infof("마이그레이션 완료: %s", report.Summary())
	return report
}
