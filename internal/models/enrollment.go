package models

import "time"

// Enrollment — student_lectures 행. (student_id, lecture_id) 은 유일.
type Enrollment struct {
	ID         int64
	StudentID  int64
	LectureID  int64
	EnrolledAt time.Time
	IsActive   bool

	// 조회 전용 조인 필드
	StudentName string
	LectureName string
}

// InstructorAssignment — instructor_lectures 행. (instructor_id, lecture_id) 은 유일.
type InstructorAssignment struct {
	ID           int64
	InstructorID int64
	LectureID    int64
	CreatedAt    time.Time
}
