package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hakwonplus/academy-db/internal/models"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook — 시트 묶음으로 통합 문서 생성. 첫 행은 굵게 + 자동 필터.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}
		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}
		// 열 너비: 제목과 앞쪽 행들 길이 기준 어림값
		for c := 1; c <= len(s.Header); c++ {
			maxim := len(s.Header[c-1])
			for r := 0; r < minim(50, len(s.Rows)); r++ {
				if l := len(s.Rows[r][c-1]); l > maxim {
					maxim = l
				}
			}
			w := float64(maxim) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}
	return &Workbook{File: f}, nil
}

func (w *Workbook) SaveTemp(prefix string) (string, error) {
	name := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
	path := "/tmp/" + name
	return path, w.File.SaveAs(path)
}

// RosterSheet — 원생 명단 시트.
func RosterSheet(students []models.Student) SheetSpec {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		active := "재원"
		if !s.IsActive {
			active = "퇴원"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.ID), s.Name, s.School, s.Grade, s.Department,
			s.Phone, s.ParentPhone, fmt.Sprintf("%d", s.MonthlyFee), active,
		})
	}
	return SheetSpec{
		Title:  "원생명단",
		Header: []string{"번호", "이름", "학교", "학년", "부서", "연락처", "학부모 연락처", "월 수강료", "상태"},
		Rows:   rows,
	}
}

// AttendanceSheet — 출결 이벤트 시트. 입력 방식 3상태를 사람이 읽을 말로 푼다.
func AttendanceSheet(records []models.AttendanceRecord) SheetSpec {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		method := "수동"
		if r.IsKeypad != nil {
			if *r.IsKeypad {
				method = "키패드"
			} else {
				method = "얼굴인식"
			}
		}
		forced := ""
		if r.IsForced {
			forced = "관리자"
		}
		rows = append(rows, []string{
			r.TaggedAt.Format("2006-01-02 15:04"), r.StudentName, r.ClassName,
			r.Status, method, forced, r.DeviceID, r.Comment,
		})
	}
	return SheetSpec{
		Title:  "출결기록",
		Header: []string{"시각", "이름", "수업", "상태", "입력방식", "강제", "기기", "비고"},
		Rows:   rows,
	}
}

// helpers
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
