package db

import (
	"context"
	"database/sql"

	"github.com/hakwonplus/academy-db/internal/models"
)

func CreateInstructor(ctx context.Context, database *sql.DB, ins models.Instructor) (int64, error) {
	res, err := database.ExecContext(ctx, `
INSERT INTO instructors (name, department, subject, phone, email, hire_date, address, memo,
	salary, employment_type, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(NULLIF(?, ''), '정규'), COALESCE(NULLIF(?, ''), 'active'))`,
		ins.Name, ins.Department, ins.Subject, ins.Phone, ins.Email, ins.HireDate,
		ins.Address, ins.Memo, ins.Salary, ins.EmploymentType, ins.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func GetInstructorByID(ctx context.Context, database *sql.DB, id int64) (*models.Instructor, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, name, department, subject, phone, email, hire_date, address, COALESCE(memo, ''),
	salary, employment_type, status, is_active, created_at, updated_at
FROM instructors WHERE id = ?`, id)

	var ins models.Instructor
	err := row.Scan(&ins.ID, &ins.Name, &ins.Department, &ins.Subject, &ins.Phone, &ins.Email,
		&ins.HireDate, &ins.Address, &ins.Memo, &ins.Salary, &ins.EmploymentType,
		&ins.Status, &ins.IsActive, &ins.CreatedAt, &ins.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

func ListInstructors(ctx context.Context, database *sql.DB, activeOnly bool) ([]models.Instructor, error) {
	query := `
SELECT id, name, department, subject, phone, email, hire_date, address, COALESCE(memo, ''),
	salary, employment_type, status, is_active, created_at, updated_at
FROM instructors`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Instructor
	for rows.Next() {
		var ins models.Instructor
		if err := rows.Scan(&ins.ID, &ins.Name, &ins.Department, &ins.Subject, &ins.Phone,
			&ins.Email, &ins.HireDate, &ins.Address, &ins.Memo, &ins.Salary,
			&ins.EmploymentType, &ins.Status, &ins.IsActive, &ins.CreatedAt, &ins.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, rows.Err()
}

// DeleteInstructor — 담당 강의의 instructor_id 는 FK 가 NULL 로 돌리고,
// instructor_lectures 배정 행은 CASCADE 로 지워진다.
func DeleteInstructor(ctx context.Context, database *sql.DB, id int64) error {
	_, err := database.ExecContext(ctx, `DELETE FROM instructors WHERE id = ?`, id)
	return err
}

func AssignInstructor(ctx context.Context, database *sql.DB, instructorID, lectureID int64) error {
	_, err := database.ExecContext(ctx, `
INSERT INTO instructor_lectures (instructor_id, lecture_id) VALUES (?, ?)`,
		instructorID, lectureID)
	return err
}

func UnassignInstructor(ctx context.Context, database *sql.DB, instructorID, lectureID int64) error {
	_, err := database.ExecContext(ctx, `
DELETE FROM instructor_lectures WHERE instructor_id = ? AND lecture_id = ?`,
		instructorID, lectureID)
	return err
}
