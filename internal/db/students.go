package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hakwonplus/academy-db/internal/models"
)

const studentColumns = `id, name, school, grade, department, phone, parent_phone, email,
birth_date, address, COALESCE(memo, ''), monthly_fee, payment_due_day,
auto_attendance_msg, auto_outing_msg, auto_image_msg, auto_study_msg,
profile_image, is_active, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.Name, &s.School, &s.Grade, &s.Department, &s.Phone,
		&s.ParentPhone, &s.Email, &s.BirthDate, &s.Address, &s.Memo,
		&s.MonthlyFee, &s.PaymentDueDay,
		&s.AutoAttendanceMsg, &s.AutoOutingMsg, &s.AutoImageMsg, &s.AutoStudyMsg,
		&s.ProfileImage, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func CreateStudent(ctx context.Context, database *sql.DB, s models.Student) (int64, error) {
	if s.ParentPhone == "" {
		return 0, fmt.Errorf("학부모 연락처는 필수입니다")
	}
	res, err := database.ExecContext(ctx, `
INSERT INTO students (name, school, grade, department, phone, parent_phone, email,
	birth_date, address, memo, monthly_fee, payment_due_day,
	auto_attendance_msg, auto_outing_msg, auto_image_msg, auto_study_msg, profile_image)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.School, s.Grade, s.Department, s.Phone, s.ParentPhone, s.Email,
		s.BirthDate, s.Address, s.Memo, s.MonthlyFee, s.PaymentDueDay,
		s.AutoAttendanceMsg, s.AutoOutingMsg, s.AutoImageMsg, s.AutoStudyMsg, s.ProfileImage)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func GetStudentByID(ctx context.Context, database *sql.DB, id int64) (*models.Student, error) {
	row := database.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	return scanStudent(row)
}

func ListStudents(ctx context.Context, database *sql.DB, activeOnly bool) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func UpdateStudent(ctx context.Context, database *sql.DB, s models.Student) error {
	_, err := database.ExecContext(ctx, `
UPDATE students SET name = ?, school = ?, grade = ?, department = ?, phone = ?,
	parent_phone = ?, email = ?, birth_date = ?, address = ?, memo = ?,
	monthly_fee = ?, payment_due_day = ?,
	auto_attendance_msg = ?, auto_outing_msg = ?, auto_image_msg = ?, auto_study_msg = ?,
	profile_image = ?
WHERE id = ?`,
		s.Name, s.School, s.Grade, s.Department, s.Phone,
		s.ParentPhone, s.Email, s.BirthDate, s.Address, s.Memo,
		s.MonthlyFee, s.PaymentDueDay,
		s.AutoAttendanceMsg, s.AutoOutingMsg, s.AutoImageMsg, s.AutoStudyMsg,
		s.ProfileImage, s.ID)
	return err
}

// DeactivateStudent — 일반 삭제 경로. 행은 남기고 active 플래그만 내린다.
func DeactivateStudent(ctx context.Context, database *sql.DB, id int64) error {
	_, err := database.ExecContext(ctx,
		`UPDATE students SET is_active = 0 WHERE id = ?`, id)
	return err
}

// DeleteStudent — 완전 삭제. 수강/출결 행은 FK CASCADE 로 함께 지워지므로
// 지우기 전에 영향을 받는 강의를 잡아 두고 카운터를 다시 맞춘다.
func DeleteStudent(ctx context.Context, database *sql.DB, id int64) error {
	rows, err := database.QueryContext(ctx,
		`SELECT lecture_id FROM student_lectures WHERE student_id = ?`, id)
	if err != nil {
		return err
	}
	var lectureIDs []int64
	for rows.Next() {
		var lid int64
		if err := rows.Scan(&lid); err != nil {
			rows.Close()
			return err
		}
		lectureIDs = append(lectureIDs, lid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := database.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id); err != nil {
		return err
	}
	for _, lid := range lectureIDs {
		if err := RecountLecture(ctx, database, lid); err != nil {
			return err
		}
	}
	return nil
}
