package db

import (
	"context"
	"database/sql"

	"github.com/hakwonplus/academy-db/internal/models"
)

func CreateLecture(ctx context.Context, database *sql.DB, l models.Lecture) (int64, error) {
	status := l.Status
	if status == "" {
		status = models.LectureActive
	}
	maxStudents := l.MaxStudents
	if maxStudents == 0 {
		maxStudents = 20
	}
	res, err := database.ExecContext(ctx, `
INSERT INTO lectures (name, subject, description, instructor_id, schedule,
	start_date, end_date, fee, max_students, room, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Name, l.Subject, l.Description, l.InstructorID, l.Schedule,
		l.StartDate, l.EndDate, l.Fee, maxStudents, l.Room, string(status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func GetLectureByID(ctx context.Context, database *sql.DB, id int64) (*models.Lecture, error) {
	row := database.QueryRowContext(ctx, `
SELECT l.id, l.name, l.subject, COALESCE(l.description, ''), l.instructor_id, l.schedule,
	l.start_date, l.end_date, l.fee, l.max_students, l.current_students, l.room,
	l.status, l.is_active, l.created_at, l.updated_at, COALESCE(i.name, '')
FROM lectures l LEFT JOIN instructors i ON i.id = l.instructor_id
WHERE l.id = ?`, id)
	return scanLecture(row)
}

func ListLectures(ctx context.Context, database *sql.DB, activeOnly bool) ([]models.Lecture, error) {
	query := `
SELECT l.id, l.name, l.subject, COALESCE(l.description, ''), l.instructor_id, l.schedule,
	l.start_date, l.end_date, l.fee, l.max_students, l.current_students, l.room,
	l.status, l.is_active, l.created_at, l.updated_at, COALESCE(i.name, '')
FROM lectures l LEFT JOIN instructors i ON i.id = l.instructor_id`
	if activeOnly {
		query += ` WHERE l.is_active = 1 AND l.status = 'active'`
	}
	query += ` ORDER BY l.name`

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lecture
	for rows.Next() {
		l, err := scanLecture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func scanLecture(row interface{ Scan(...any) error }) (*models.Lecture, error) {
	var l models.Lecture
	var status string
	err := row.Scan(&l.ID, &l.Name, &l.Subject, &l.Description, &l.InstructorID, &l.Schedule,
		&l.StartDate, &l.EndDate, &l.Fee, &l.MaxStudents, &l.CurrentStudents, &l.Room,
		&status, &l.IsActive, &l.CreatedAt, &l.UpdatedAt, &l.InstructorName)
	if err != nil {
		return nil, err
	}
	l.Status = models.LectureStatus(status)
	return &l, nil
}

// DeleteLecture — 수강 행은 CASCADE 로 함께 삭제된다.
func DeleteLecture(ctx context.Context, database *sql.DB, id int64) error {
	_, err := database.ExecContext(ctx, `DELETE FROM lectures WHERE id = ?`, id)
	return err
}

// RecountLecture — current_students 를 활성 수강 행 수에 맞춘다.
// 수강 변경 함수들이 변경 즉시 호출하므로 평시에는 어긋나지 않는다.
func RecountLecture(ctx context.Context, database *sql.DB, lectureID int64) error {
	_, err := database.ExecContext(ctx, `
UPDATE lectures SET current_students =
	(SELECT COUNT(*) FROM student_lectures WHERE lecture_id = lectures.id AND is_active = 1)
WHERE id = ?`, lectureID)
	return err
}

// RecountAllLectures — 전체 보정. 마이그레이션 마지막 단계와 watch 모드가
// 호출한다 (저장소 계층을 거치지 않는 외부 기록기의 드리프트 복구용).
// 반환값은 값이 바뀐 행 수.
func RecountAllLectures(ctx context.Context, database *sql.DB) (int64, error) {
	res, err := database.ExecContext(ctx, `
UPDATE lectures SET current_students =
	(SELECT COUNT(*) FROM student_lectures WHERE lecture_id = lectures.id AND is_active = 1)`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
