package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/hakwonplus/academy-db/internal/models"
)

var ErrAlreadyEnrolled = errors.New("이미 수강 중인 강의")

// Enroll — (student, lecture) 유일쌍. 성공하면 해당 강의 카운터를 즉시 재계산.
func Enroll(ctx context.Context, database *sql.DB, studentID, lectureID int64) (int64, error) {
	res, err := database.ExecContext(ctx, `
INSERT INTO student_lectures (student_id, lecture_id) VALUES (?, ?)`, studentID, lectureID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, ErrAlreadyEnrolled
		}
		return 0, fmt.Errorf("enroll student %d lecture %d: %w", studentID, lectureID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := RecountLecture(ctx, database, lectureID); err != nil {
		return 0, err
	}
	return id, nil
}

func Unenroll(ctx context.Context, database *sql.DB, studentID, lectureID int64) error {
	_, err := database.ExecContext(ctx, `
DELETE FROM student_lectures WHERE student_id = ? AND lecture_id = ?`, studentID, lectureID)
	if err != nil {
		return err
	}
	return RecountLecture(ctx, database, lectureID)
}

// SetEnrollmentActive — 휴원 처리 등. 카운터는 활성 행만 세므로 함께 재계산.
func SetEnrollmentActive(ctx context.Context, database *sql.DB, studentID, lectureID int64, active bool) error {
	_, err := database.ExecContext(ctx, `
UPDATE student_lectures SET is_active = ? WHERE student_id = ? AND lecture_id = ?`,
		active, studentID, lectureID)
	if err != nil {
		return err
	}
	return RecountLecture(ctx, database, lectureID)
}

func ListEnrollmentsByLecture(ctx context.Context, database *sql.DB, lectureID int64) ([]models.Enrollment, error) {
	rows, err := database.QueryContext(ctx, `
SELECT sl.id, sl.student_id, sl.lecture_id, sl.enrolled_at, sl.is_active, s.name, l.name
FROM student_lectures sl
JOIN students s ON s.id = sl.student_id
JOIN lectures l ON l.id = sl.lecture_id
WHERE sl.lecture_id = ?
ORDER BY s.name`, lectureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnrollments(rows)
}

func ListEnrollmentsByStudent(ctx context.Context, database *sql.DB, studentID int64) ([]models.Enrollment, error) {
	rows, err := database.QueryContext(ctx, `
SELECT sl.id, sl.student_id, sl.lecture_id, sl.enrolled_at, sl.is_active, s.name, l.name
FROM student_lectures sl
JOIN students s ON s.id = sl.student_id
JOIN lectures l ON l.id = sl.lecture_id
WHERE sl.student_id = ?
ORDER BY l.name`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnrollments(rows)
}

func scanEnrollments(rows *sql.Rows) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentID, &e.LectureID, &e.EnrolledAt,
			&e.IsActive, &e.StudentName, &e.LectureName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
