package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hakwonplus/academy-db/internal/ctxutil"
)

// 검증 대상 테이블. 스키마 계약의 표면 전체.
var coreTables = []string{
	"users",
	"students",
	"instructors",
	"lectures",
	"student_lectures",
	"instructor_lectures",
	"attendance_records",
}

type TableCount struct {
	Table  string
	Rows   int64
	Exists bool
}

// Verify — 실행 결과를 사람이 확인할 수 있게 읽기 전용으로 되읽는다.
// 테이블이 없으면 보고만 하고 오류로 만들지 않는다.
func Verify(ctx context.Context, database *sql.DB, lg *zap.SugaredLogger) ([]TableCount, error) {
	out := make([]TableCount, 0, len(coreTables))
	for _, table := range coreTables {
		tc, err := countTable(ctx, database, table)
		if err != nil {
			return nil, err
		}
		if tc.Exists {
			lg.Infof("📋 %-20s %6d rows", tc.Table, tc.Rows)
		} else {
			lg.Warnf("📋 %-20s (없음)", tc.Table)
		}
		out = append(out, tc)
	}
	return out, nil
}

func countTable(ctx context.Context, database *sql.DB, table string) (TableCount, error) {
	// 읽기 전용 검증은 단건 타임아웃으로 묶는다
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tc := TableCount{Table: table}
	exists, err := tableExists(ctx, database, table)
	if err != nil {
		return tc, fmt.Errorf("check table %s: %w", table, err)
	}
	tc.Exists = exists
	if !exists {
		return tc, nil
	}
	// 테이블명은 고정 목록에서만 오므로 포맷 삽입이 안전하다
	if err := database.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM `%s`", table)).Scan(&tc.Rows); err != nil {
		return tc, fmt.Errorf("count %s: %w", table, err)
	}
	return tc, nil
}
