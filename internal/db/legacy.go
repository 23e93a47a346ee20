package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// LegacyLectureIDs — 초기 버전이 쓰던 문자열 슬러그 id 와 현재 숫자 id 의
// 대응표. 슬러그 시절 데이터를 가진 DB 에서 단 한 번 소비된다.
var LegacyLectureIDs = map[string]int64{
	"math_a":    1,
	"english_b": 2,
	"science_c": 3,
	"math_b":    4,
}

func tableExists(ctx context.Context, database *sql.DB, name string) (bool, error) {
	var n int
	err := database.QueryRowContext(ctx, `
SELECT COUNT(*) FROM information_schema.TABLES
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`, name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func columnDataType(ctx context.Context, database *sql.DB, table, column string) (string, error) {
	var dt string
	err := database.QueryRowContext(ctx, `
SELECT DATA_TYPE FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`, table, column).Scan(&dt)
	return dt, err
}

// consolidateTeachers — 과거 한때 teachers 와 instructors 가 공존했다.
// 정본은 instructors 하나다: teachers 가 남아 있으면 행을 옮기고 테이블을 버린다.
func consolidateTeachers(ctx context.Context, database *sql.DB) error {
	exists, err := tableExists(ctx, database, "teachers")
	if err != nil {
		return err
	}
	if !exists {
		return Skip("legacy teachers 테이블 없음")
	}

	// 이름 기준 중복 방지. teachers 쪽 스키마는 초기형이라 컬럼이 적다.
	if _, err := database.ExecContext(ctx, `
INSERT INTO instructors (name, subject, phone, email)
SELECT t.name, t.subject, t.phone, t.email FROM teachers t
WHERE NOT EXISTS (SELECT 1 FROM instructors i WHERE i.name = t.name)`); err != nil {
		return fmt.Errorf("copy teachers rows: %w", err)
	}

	if _, err := database.ExecContext(ctx, `DROP TABLE teachers`); err != nil {
		return fmt.Errorf("drop teachers: %w", err)
	}
	return nil
}

type legacyEnrollmentRow struct {
	id         int64
	studentID  int64
	lectureRef string
	enrolledAt sql.NullTime
	isActive   bool
}

// migrateLegacyLectureIDs — student_lectures.lecture_id 가 VARCHAR 슬러그였던
// DB 를 BIGINT 로 올린다. 순서 고정:
// 스냅샷 → FK 체크 해제 → 비우기 → 타입 변경 → 대응표로 재삽입 → FK 재생성 → FK 체크 복원.
func migrateLegacyLectureIDs(ctx context.Context, database *sql.DB) error {
	dt, err := columnDataType(ctx, database, "student_lectures", "lecture_id")
	if errors.Is(err, sql.ErrNoRows) {
		return Skip("student_lectures.lecture_id 없음")
	}
	if err != nil {
		return err
	}
	if dt != "varchar" && dt != "char" && dt != "text" {
		return Skip("lecture_id 는 이미 숫자형")
	}

	rows, err := database.QueryContext(ctx,
		`SELECT id, student_id, lecture_id, enrolled_at, is_active FROM student_lectures`)
	if err != nil {
		return fmt.Errorf("snapshot student_lectures: %w", err)
	}
	var snapshot []legacyEnrollmentRow
	for rows.Next() {
		var r legacyEnrollmentRow
		if err := rows.Scan(&r.id, &r.studentID, &r.lectureRef, &r.enrolledAt, &r.isActive); err != nil {
			rows.Close()
			return fmt.Errorf("scan legacy enrollment: %w", err)
		}
		snapshot = append(snapshot, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// 타입 변경 동안 FK 체크를 꺼야 한다. 단일 커넥션에 고정 — 세션 변수이므로.
	conn, err := database.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SET FOREIGN_KEY_CHECKS = 0`); err != nil {
		return err
	}
	defer func() {
		_, _ = conn.ExecContext(ctx, `SET FOREIGN_KEY_CHECKS = 1`)
	}()

	// 기존 FK 가 있으면 이름을 찾아 제거 (초기 스크립트들은 이름이 제각각이었다)
	fkRows, err := conn.QueryContext(ctx, `
SELECT CONSTRAINT_NAME FROM information_schema.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'student_lectures'
  AND COLUMN_NAME = 'lecture_id' AND REFERENCED_TABLE_NAME IS NOT NULL`)
	if err != nil {
		return err
	}
	var fkNames []string
	for fkRows.Next() {
		var name string
		if err := fkRows.Scan(&name); err != nil {
			fkRows.Close()
			return err
		}
		fkNames = append(fkNames, name)
	}
	fkRows.Close()
	for _, name := range fkNames {
		if _, err := conn.ExecContext(ctx,
			fmt.Sprintf("ALTER TABLE student_lectures DROP FOREIGN KEY `%s`", name)); err != nil {
			return fmt.Errorf("drop fk %s: %w", name, err)
		}
	}

	if _, err := conn.ExecContext(ctx, `DELETE FROM student_lectures`); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx,
		`ALTER TABLE student_lectures MODIFY lecture_id BIGINT NOT NULL`); err != nil {
		return fmt.Errorf("modify lecture_id: %w", err)
	}

	for _, r := range snapshot {
		target, ok := LegacyLectureIDs[r.lectureRef]
		if !ok {
			// 슬러그가 아닌 값은 이미 숫자였던 행 — 그대로 보존
			n, perr := strconv.ParseInt(r.lectureRef, 10, 64)
			if perr != nil {
				return fmt.Errorf("unmapped legacy lecture id %q", r.lectureRef)
			}
			target = n
		}
		if _, err := conn.ExecContext(ctx, `
INSERT IGNORE INTO student_lectures (id, student_id, lecture_id, enrolled_at, is_active)
VALUES (?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP), ?)`,
			r.id, r.studentID, target, r.enrolledAt, r.isActive); err != nil {
			return fmt.Errorf("reinsert enrollment %d: %w", r.id, err)
		}
	}

	if _, err := conn.ExecContext(ctx, `
ALTER TABLE student_lectures ADD CONSTRAINT fk_sl_lecture
FOREIGN KEY (lecture_id) REFERENCES lectures(id) ON DELETE CASCADE`); err != nil {
		return fmt.Errorf("recreate fk_sl_lecture: %w", err)
	}

	// 레거시 테이블 중엔 student_id FK 조차 없는 판본이 있었다
	var studentFKs int
	if err := conn.QueryRowContext(ctx, `
SELECT COUNT(*) FROM information_schema.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'student_lectures'
  AND COLUMN_NAME = 'student_id' AND REFERENCED_TABLE_NAME IS NOT NULL`).Scan(&studentFKs); err != nil {
		return err
	}
	if studentFKs == 0 {
		if _, err := conn.ExecContext(ctx, `
ALTER TABLE student_lectures ADD CONSTRAINT fk_sl_student
FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE`); err != nil {
			return fmt.Errorf("recreate fk_sl_student: %w", err)
		}
	}
	return nil
}
