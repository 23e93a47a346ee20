package models

import "time"

// 태깅 기기가 보내는 상태 문자열. enum 이 아니라 자유 텍스트 컬럼이지만
// 시스템이 직접 만드는 값은 아래 다섯 가지다.
const (
	AttendanceArrive    = "등원"
	AttendanceLeave     = "하원"
	AttendanceOutgo     = "외출"
	AttendanceReturn    = "복귀"
	AttendanceEarlyExit = "조퇴"
)

// AttendanceRecord — 상태 변화마다 1행씩 추가되는 append-only 이벤트.
// 수정/삭제 경로는 없다. 관리자 강제 변경도 새 행으로 기록된다.
type AttendanceRecord struct {
	ID          int64
	StudentID   int64
	StudentName string // 조회 편의용 비정규화
	ClassName   string
	Status      string
	TaggedAt    time.Time
	// nil = 수동 입력, true = 키패드, false = 얼굴 인식
	IsKeypad  *bool
	IsForced  bool
	DeviceID  string
	Comment   string
	Thumbnail string // base64, 선택
	CreatedAt time.Time
}
