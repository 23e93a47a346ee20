//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hakwonplus/academy-db/internal/db"
	"github.com/hakwonplus/academy-db/internal/models"
	"github.com/hakwonplus/academy-db/internal/testutil/testdb"
)

func mustStudent(t *testing.T, ctx context.Context, h *testdb.DBHandle, name string) int64 {
	t.Helper()
	id, err := db.CreateStudent(ctx, h.DB, models.Student{
		Name: name, School: "서울중학교", Grade: "중2", ParentPhone: "010-0000-0000",
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func mustLecture(t *testing.T, ctx context.Context, h *testdb.DBHandle, name string) int64 {
	t.Helper()
	id, err := db.CreateLecture(ctx, h.DB, models.Lecture{Name: name, Subject: "수학"})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func currentStudents(t *testing.T, ctx context.Context, h *testdb.DBHandle, lectureID int64) int {
	t.Helper()
	lec, err := db.GetLectureByID(ctx, h.DB, lectureID)
	if err != nil {
		t.Fatal(err)
	}
	return lec.CurrentStudents
}

func TestEnroll_RecountAndUniqueness(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	st := mustStudent(t, ctx, h, "홍길동")
	lec := mustLecture(t, ctx, h, "중등 수학 A반")

	if _, err := db.Enroll(ctx, h.DB, st, lec); err != nil {
		t.Fatal(err)
	}
	if n := currentStudents(t, ctx, h, lec); n != 1 {
		t.Fatalf("current_students = %d, want 1", n)
	}

	// (student, lecture) 유일쌍
	if _, err := db.Enroll(ctx, h.DB, st, lec); !errors.Is(err, db.ErrAlreadyEnrolled) {
		t.Fatalf("중복 수강인데 err = %v", err)
	}

	// 휴원 → 카운터에서 빠진다
	if err := db.SetEnrollmentActive(ctx, h.DB, st, lec, false); err != nil {
		t.Fatal(err)
	}
	if n := currentStudents(t, ctx, h, lec); n != 0 {
		t.Fatalf("휴원 후 current_students = %d, want 0", n)
	}
	if err := db.SetEnrollmentActive(ctx, h.DB, st, lec, true); err != nil {
		t.Fatal(err)
	}
	if n := currentStudents(t, ctx, h, lec); n != 1 {
		t.Fatalf("복원 후 current_students = %d, want 1", n)
	}

	if err := db.Unenroll(ctx, h.DB, st, lec); err != nil {
		t.Fatal(err)
	}
	if n := currentStudents(t, ctx, h, lec); n != 0 {
		t.Fatalf("수강 취소 후 current_students = %d, want 0", n)
	}
}

func TestDeleteStudent_CascadesAndRecounts(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	st := mustStudent(t, ctx, h, "김영희")
	lec1 := mustLecture(t, ctx, h, "수학 A")
	lec2 := mustLecture(t, ctx, h, "수학 B")
	if _, err := db.Enroll(ctx, h.DB, st, lec1); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Enroll(ctx, h.DB, st, lec2); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteStudent(ctx, h.DB, st); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := h.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_lectures WHERE student_id = ?`, st).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("삭제 후 수강 행 %d개 잔존", n)
	}
	if c := currentStudents(t, ctx, h, lec1); c != 0 {
		t.Fatalf("lec1 current_students = %d", c)
	}
	if c := currentStudents(t, ctx, h, lec2); c != 0 {
		t.Fatalf("lec2 current_students = %d", c)
	}
}

func TestDeleteLecture_CascadesEnrollments(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	st := mustStudent(t, ctx, h, "이철수")
	lec := mustLecture(t, ctx, h, "과학 C")
	if _, err := db.Enroll(ctx, h.DB, st, lec); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteLecture(ctx, h.DB, lec); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := h.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM student_lectures WHERE lecture_id = ?`, lec).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("강의 삭제 후 수강 행 %d개 잔존", n)
	}
}

func TestInstructorAssignment_UniqueAndCascade(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	insID, err := db.CreateInstructor(ctx, h.DB, models.Instructor{Name: "김민수", Subject: "수학"})
	if err != nil {
		t.Fatal(err)
	}
	lec := mustLecture(t, ctx, h, "수학 A")
	if _, err := h.DB.ExecContext(ctx,
		`UPDATE lectures SET instructor_id = ? WHERE id = ?`, insID, lec); err != nil {
		t.Fatal(err)
	}

	if err := db.AssignInstructor(ctx, h.DB, insID, lec); err != nil {
		t.Fatal(err)
	}
	if err := db.AssignInstructor(ctx, h.DB, insID, lec); err == nil {
		t.Fatal("(instructor, lecture) 중복 배정이 통과함")
	}

	if err := db.DeleteInstructor(ctx, h.DB, insID); err != nil {
		t.Fatal(err)
	}

	// 배정 행은 CASCADE, 담당 강의는 SET NULL
	var n int
	if err := h.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM instructor_lectures WHERE instructor_id = ?`, insID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("강사 삭제 후 배정 행 %d개 잔존", n)
	}
	got, err := db.GetLectureByID(ctx, h.DB, lec)
	if err != nil {
		t.Fatal(err)
	}
	if got.InstructorID != nil {
		t.Fatalf("instructor_id = %v, want NULL", *got.InstructorID)
	}
}
