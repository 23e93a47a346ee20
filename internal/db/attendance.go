package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hakwonplus/academy-db/internal/ctxutil"
	"github.com/hakwonplus/academy-db/internal/models"
)

// RecordAttendance — 출결 이벤트 1행 추가. 이 테이블은 append-only 다:
// 수정/삭제 함수는 만들지 않는다. 관리자 강제 변경도 is_forced 를 세운 새 행이다.
func RecordAttendance(ctx context.Context, database *sql.DB, rec models.AttendanceRecord) (int64, error) {
	if rec.Status == "" {
		return 0, fmt.Errorf("출결 상태가 비어 있음")
	}
	if rec.TaggedAt.IsZero() {
		rec.TaggedAt = time.Now()
	}
	if rec.DeviceID == "" {
		if id, ok := ctxutil.DeviceID(ctx); ok {
			rec.DeviceID = id
		}
	}
	// student_name 비정규화: 호출자가 안 채웠으면 여기서 채운다
	if rec.StudentName == "" {
		err := database.QueryRowContext(ctx,
			`SELECT name FROM students WHERE id = ?`, rec.StudentID).Scan(&rec.StudentName)
		if err != nil {
			return 0, fmt.Errorf("lookup student %d: %w", rec.StudentID, err)
		}
	}

	res, err := database.ExecContext(ctx, `
INSERT INTO attendance_records
	(student_id, student_name, class_name, status, tagged_at, is_keypad, is_forced,
	 device_id, comment, thumbnail)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))`,
		rec.StudentID, rec.StudentName, rec.ClassName, rec.Status, rec.TaggedAt,
		rec.IsKeypad, rec.IsForced, rec.DeviceID, rec.Comment, rec.Thumbnail)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func ListAttendance(ctx context.Context, database *sql.DB, studentID int64, from, to time.Time) ([]models.AttendanceRecord, error) {
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, student_name, class_name, status, tagged_at, is_keypad, is_forced,
	device_id, comment, COALESCE(thumbnail, ''), created_at
FROM attendance_records
WHERE student_id = ? AND tagged_at >= ? AND tagged_at < ?
ORDER BY tagged_at`, studentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendance(rows)
}

// ListAttendanceByDay — 내보내기용 하루치 전체 조회.
func ListAttendanceByDay(ctx context.Context, database *sql.DB, day time.Time) ([]models.AttendanceRecord, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	rows, err := database.QueryContext(ctx, `
SELECT id, student_id, student_name, class_name, status, tagged_at, is_keypad, is_forced,
	device_id, comment, COALESCE(thumbnail, ''), created_at
FROM attendance_records
WHERE tagged_at >= ? AND tagged_at < ?
ORDER BY tagged_at`, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttendance(rows)
}

// LatestStatus — 학생의 가장 최근 상태 (등원 현황판용).
func LatestStatus(ctx context.Context, database *sql.DB, studentID int64) (string, error) {
	var status string
	err := database.QueryRowContext(ctx, `
SELECT status FROM attendance_records
WHERE student_id = ? ORDER BY tagged_at DESC, id DESC LIMIT 1`, studentID).Scan(&status)
	return status, err
}

func scanAttendance(rows *sql.Rows) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for rows.Next() {
		var r models.AttendanceRecord
		if err := rows.Scan(&r.ID, &r.StudentID, &r.StudentName, &r.ClassName, &r.Status,
			&r.TaggedAt, &r.IsKeypad, &r.IsForced, &r.DeviceID, &r.Comment,
			&r.Thumbnail, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
