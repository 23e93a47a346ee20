package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hakwonplus/academy-db/internal/metrics"
)

// DefaultAdminPassword — 시드 계정 초기 비밀번호. 저장 전 반드시 bcrypt 해시를
// 거친다. 평문이 DB 에 들어가는 경로는 없다.
const DefaultAdminPassword = "admin1234"

type seedInsert struct {
	name  string
	query string
	args  []any
}

// Seed — 스키마가 준비된 뒤 기준 데이터를 넣는다. 모든 INSERT 는 IGNORE 또는
// 유일키 보호라 재실행해도 중복이 생기지 않는다. 개별 실패는 기록하고 다음
// 시드로 넘어가되, 실패 건수를 돌려줘 호출자가 종료 코드에 반영하게 한다.
func Seed(ctx context.Context, database *sql.DB, lg *zap.SugaredLogger, demo bool) (int, error) {
	inserts, err := seedInserts(demo)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, ins := range inserts {
		if _, err := database.ExecContext(ctx, ins.query, ins.args...); err != nil {
			failed++
			metrics.SeedErrors.Inc()
			lg.Errorf("❌ 시드 실패 (%s): %v", ins.name, err)
			continue
		}
	}

	// 데모 수강 행이 들어갔을 수 있으므로 캐시를 맞춘다
	if _, err := RecountAllLectures(ctx, database); err != nil {
		lg.Errorf("❌ current_students 재계산 실패: %v", err)
	}

	if failed > 0 {
		lg.Warnf("시드 완료 (실패 %d건)", failed)
	} else {
		lg.Info("✅ 시드 데이터 삽입 완료")
	}
	return failed, nil
}

func seedInserts(demo bool) ([]seedInsert, error) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	directorHash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash director password: %w", err)
	}

	inserts := []seedInsert{
		{
			name: "user admin",
			query: `INSERT IGNORE INTO users (username, password, name, email, role)
VALUES (?, ?, ?, ?, 'admin')`,
			args: []any{"admin", string(adminHash), "관리자", "admin@academy.local"},
		},
		{
			name: "user director",
			query: `INSERT IGNORE INTO users (username, password, name, email, role)
VALUES (?, ?, ?, ?, 'superadmin')`,
			args: []any{"director", string(directorHash), "원장", "director@academy.local"},
		},

		// 강사 / 강의는 고정 id 로 넣는다. 레거시 슬러그 대응표(legacy.go)가
		// 이 번호를 가리키므로 id 를 바꾸면 대응표도 같이 바꿔야 한다.
		{
			name: "instructor 김민수",
			query: `INSERT IGNORE INTO instructors (id, name, department, subject, phone, email)
VALUES (1, '김민수', '수학과', '수학', '010-1111-2222', 'kim@academy.local')`,
		},
		{
			name: "instructor 이서연",
			query: `INSERT IGNORE INTO instructors (id, name, department, subject, phone, email)
VALUES (2, '이서연', '영어과', '영어', '010-3333-4444', 'lee@academy.local')`,
		},
		{
			name: "instructor 박지훈",
			query: `INSERT IGNORE INTO instructors (id, name, department, subject, phone, email)
VALUES (3, '박지훈', '과학과', '과학', '010-5555-6666', 'park@academy.local')`,
		},

		{
			name: "lecture 중등 수학 A반",
			query: `INSERT IGNORE INTO lectures (id, name, subject, instructor_id, schedule, fee, max_students, room)
VALUES (1, '중등 수학 A반', '수학', 1, '월수금 16:00-17:30', 250000, 15, '201호')`,
		},
		{
			name: "lecture 중등 영어 B반",
			query: `INSERT IGNORE INTO lectures (id, name, subject, instructor_id, schedule, fee, max_students, room)
VALUES (2, '중등 영어 B반', '영어', 2, '화목 17:00-19:00', 220000, 12, '202호')`,
		},
		{
			name: "lecture 고등 과학 C반",
			query: `INSERT IGNORE INTO lectures (id, name, subject, instructor_id, schedule, fee, max_students, room)
VALUES (3, '고등 과학 C반', '과학', 3, '토 10:00-13:00', 300000, 10, '301호')`,
		},
		{
			name: "lecture 고등 수학 B반",
			query: `INSERT IGNORE INTO lectures (id, name, subject, instructor_id, schedule, fee, max_students, room)
VALUES (4, '고등 수학 B반', '수학', 1, '월수금 19:00-21:00', 280000, 15, '201호')`,
		},

		// 배정은 양쪽 테이블이 채워진 뒤에만
		{name: "assignment 1-1", query: `INSERT IGNORE INTO instructor_lectures (instructor_id, lecture_id) VALUES (1, 1)`},
		{name: "assignment 2-2", query: `INSERT IGNORE INTO instructor_lectures (instructor_id, lecture_id) VALUES (2, 2)`},
		{name: "assignment 3-3", query: `INSERT IGNORE INTO instructor_lectures (instructor_id, lecture_id) VALUES (3, 3)`},
		{name: "assignment 1-4", query: `INSERT IGNORE INTO instructor_lectures (instructor_id, lecture_id) VALUES (1, 4)`},
	}

	if demo {
		inserts = append(inserts,
			seedInsert{
				name: "demo students",
				query: `INSERT IGNORE INTO students (id, name, school, grade, phone, parent_phone) VALUES
(1, '홍길동', '서울중학교', '중2', '010-1234-0001', '010-9876-0001'),
(2, '김영희', '서울중학교', '중3', '010-1234-0002', '010-9876-0002'),
(3, '이철수', '한국고등학교', '고1', '010-1234-0003', '010-9876-0003')`,
			},
			seedInsert{
				name: "demo enrollments",
				query: `INSERT IGNORE INTO student_lectures (student_id, lecture_id) VALUES
(1, 1), (1, 2), (2, 1), (3, 3), (3, 4)`,
			},
		)
	}
	return inserts, nil
}
