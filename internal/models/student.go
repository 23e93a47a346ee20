package models

import "time"

type Student struct {
	ID          int64
	Name        string
	School      string
	Grade       string
	Department  string
	Phone       string
	ParentPhone string // 필수: 모든 자동 알림의 수신처
	Email       string
	BirthDate   *time.Time
	Address     string
	Memo        string

	MonthlyFee    int
	PaymentDueDay int

	// 자동 메시지 수신 설정
	AutoAttendanceMsg bool
	AutoOutingMsg     bool
	AutoImageMsg      bool
	AutoStudyMsg      bool

	ProfileImage string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
