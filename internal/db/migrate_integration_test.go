//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/hakwonplus/academy-db/internal/db"
	"github.com/hakwonplus/academy-db/internal/testutil/testdb"
)

func TestMigrate_FreshThenRerun(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	// 1차 실행 (testdb.Start 내부): 테이블 생성은 모두 applied
	if !h.Report.OK() {
		t.Fatalf("1차 실행 실패: %s", h.Report.Summary())
	}
	for _, res := range h.Report.Results {
		if res.Name == "create users" && res.Status != db.StatusApplied {
			t.Fatalf("create users = %s", res.Status)
		}
	}

	counts1 := tableCounts(t, ctx, h)

	// 2차 실행: 오류도, 중복 데이터도 없어야 한다
	report2 := db.Migrate(ctx, h.DB, zap.NewNop().Sugar())
	if !report2.OK() {
		t.Fatalf("재실행에서 실패 단계: %s", report2.Summary())
	}
	for _, res := range report2.Results {
		switch res.Name {
		case "create users", "create students", "create instructors", "create lectures",
			"create student_lectures", "create instructor_lectures", "create attendance_records":
			if res.Status != db.StatusSkipped {
				t.Fatalf("%s = %s (재실행은 skipped 여야 함)", res.Name, res.Status)
			}
		case "lectures: add instructor foreign key":
			if res.Status != db.StatusSkipped {
				t.Fatalf("FK 재추가 = %s", res.Status)
			}
		}
	}

	counts2 := tableCounts(t, ctx, h)
	for table, n := range counts1 {
		if counts2[table] != n {
			t.Fatalf("%s 행 수 변화: %d → %d", table, n, counts2[table])
		}
	}
}

func TestVerify_ReportsAllTables(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	out, err := db.Verify(ctx, h.DB, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 7 {
		t.Fatalf("검증 대상 %d개, want 7", len(out))
	}
	for _, tc := range out {
		if !tc.Exists {
			t.Fatalf("테이블 %s 없음", tc.Table)
		}
	}
}

func TestMigrate_LegacySlugLectureIDs(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	lg := zap.NewNop().Sugar()
	if _, err := db.Seed(ctx, h.DB, lg, false); err != nil {
		t.Fatal(err)
	}
	st1 := mustStudent(t, ctx, h, "홍길동")
	st2 := mustStudent(t, ctx, h, "김영희")

	// 슬러그 id 시절의 student_lectures 로 되돌린다: VARCHAR, FK/유일키 없음
	stmts := []string{
		`DROP TABLE student_lectures`,
		`CREATE TABLE student_lectures (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			student_id BIGINT NOT NULL,
			lecture_id VARCHAR(50) NOT NULL,
			enrolled_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			is_active TINYINT(1) NOT NULL DEFAULT 1
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, s := range stmts {
		if _, err := h.DB.ExecContext(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	// "4" 는 슬러그 이전에 이미 숫자로 적힌 행 — 대응표 없이 그대로 보존돼야 한다
	legacy := []struct {
		student int64
		slug    string
	}{
		{st1, "math_a"}, {st1, "english_b"}, {st2, "math_a"}, {st2, "4"},
	}
	for _, row := range legacy {
		if _, err := h.DB.ExecContext(ctx,
			`INSERT INTO student_lectures (student_id, lecture_id) VALUES (?, ?)`,
			row.student, row.slug); err != nil {
			t.Fatal(err)
		}
	}

	report := db.Migrate(ctx, h.DB, lg)
	if !report.OK() {
		t.Fatalf("레거시 마이그레이션 실패: %s", report.Summary())
	}

	// 행 수 보존 + 전부 대응표의 숫자 id
	var n int
	if err := h.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM student_lectures`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != len(legacy) {
		t.Fatalf("행 수 %d, want %d", n, len(legacy))
	}

	var dt string
	if err := h.DB.QueryRowContext(ctx, `
SELECT DATA_TYPE FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'student_lectures'
  AND COLUMN_NAME = 'lecture_id'`).Scan(&dt); err != nil {
		t.Fatal(err)
	}
	if dt != "bigint" {
		t.Fatalf("lecture_id 타입 = %s", dt)
	}

	var mathA int
	if err := h.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_lectures WHERE lecture_id = ?`,
		db.LegacyLectureIDs["math_a"]).Scan(&mathA); err != nil {
		t.Fatal(err)
	}
	if mathA != 2 {
		t.Fatalf("math_a 매핑 행 수 = %d, want 2", mathA)
	}

	// 숫자 문자열 행은 대응표를 거치지 않고 같은 숫자로 남는다
	var numeric int
	if err := h.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_lectures WHERE student_id = ? AND lecture_id = 4`,
		st2).Scan(&numeric); err != nil {
		t.Fatal(err)
	}
	if numeric != 1 {
		t.Fatalf("숫자 문자열 행 보존 실패: %d", numeric)
	}

	// 마지막 단계가 카운터를 다시 맞췄는지
	lec, err := db.GetLectureByID(ctx, h.DB, db.LegacyLectureIDs["math_a"])
	if err != nil {
		t.Fatal(err)
	}
	if lec.CurrentStudents != 2 {
		t.Fatalf("current_students = %d, want 2", lec.CurrentStudents)
	}
}

func TestMigrate_ConsolidatesLegacyTeachers(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	lg := zap.NewNop().Sugar()
	if _, err := db.Seed(ctx, h.DB, lg, false); err != nil {
		t.Fatal(err)
	}

	// 초기형 teachers 테이블을 되살린다. 시드된 강사와 같은 이름 하나 포함.
	if _, err := h.DB.ExecContext(ctx, `
CREATE TABLE teachers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	subject VARCHAR(50) NOT NULL DEFAULT '',
	phone VARCHAR(20) NOT NULL DEFAULT '',
	email VARCHAR(255) NOT NULL DEFAULT ''
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`); err != nil {
		t.Fatal(err)
	}
	rows := [][4]string{
		{"최은지", "국어", "010-7777-8888", "choi@academy.local"},
		{"김민수", "수학", "010-1111-2222", "kim@academy.local"},
	}
	for _, r := range rows {
		if _, err := h.DB.ExecContext(ctx,
			`INSERT INTO teachers (name, subject, phone, email) VALUES (?, ?, ?, ?)`,
			r[0], r[1], r[2], r[3]); err != nil {
			t.Fatal(err)
		}
	}

	const stepName = "consolidate legacy teachers into instructors"
	report := db.Migrate(ctx, h.DB, lg)
	if !report.OK() {
		t.Fatalf("마이그레이션 실패: %s", report.Summary())
	}
	for _, res := range report.Results {
		if res.Name == stepName && res.Status != db.StatusApplied {
			t.Fatalf("%s = %s, want applied", stepName, res.Status)
		}
	}

	// 새 이름만 넘어오고 중복 이름은 다시 복사되지 않는다
	var total int
	if err := h.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM instructors`).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Fatalf("instructors = %d, want 4", total)
	}
	var subject string
	if err := h.DB.QueryRowContext(ctx,
		`SELECT subject FROM instructors WHERE name = '최은지'`).Scan(&subject); err != nil {
		t.Fatal(err)
	}
	if subject != "국어" {
		t.Fatalf("넘어온 강사 과목 = %q", subject)
	}

	// 원본 테이블은 사라져야 한다
	var left int
	if err := h.DB.QueryRowContext(ctx, `
SELECT COUNT(*) FROM information_schema.TABLES
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'teachers'`).Scan(&left); err != nil {
		t.Fatal(err)
	}
	if left != 0 {
		t.Fatal("teachers 테이블이 남아 있음")
	}

	// 재실행에선 할 일이 없으니 skipped
	report2 := db.Migrate(ctx, h.DB, lg)
	for _, res := range report2.Results {
		if res.Name == stepName && res.Status != db.StatusSkipped {
			t.Fatalf("재실행 %s = %s, want skipped", stepName, res.Status)
		}
	}
}

func tableCounts(t *testing.T, ctx context.Context, h *testdb.DBHandle) map[string]int64 {
	t.Helper()
	out := map[string]int64{}
	for _, table := range []string{"users", "students", "instructors", "lectures",
		"student_lectures", "instructor_lectures", "attendance_records"} {
		var n int64
		if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		out[table] = n
	}
	return out
}
