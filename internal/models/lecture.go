package models

import "time"

type LectureStatus string

const (
	LectureActive    LectureStatus = "active"
	LecturePending   LectureStatus = "pending"
	LectureCompleted LectureStatus = "completed"
	LectureCancelled LectureStatus = "cancelled"
)

type Lecture struct {
	ID           int64
	Name         string
	Subject      string
	Description  string
	InstructorID *int64 // 담당 강사 삭제 시 NULL
	Schedule     string // 예: "월수금 16:00-17:30"
	StartDate    *time.Time
	EndDate      *time.Time
	Fee          int
	MaxStudents  int
	// 활성 수강 행 수의 비정규화 캐시. 수강 변경 시마다 재계산된다.
	CurrentStudents int
	Room            string
	Status          LectureStatus
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// 조회 전용 조인 필드
	InstructorName string
}
