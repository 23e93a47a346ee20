//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hakwonplus/academy-db/internal/db"
	"github.com/hakwonplus/academy-db/internal/testutil/testdb"
)

func TestSeed_FreshInstall(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	lg := zap.NewNop().Sugar()
	failed, err := db.Seed(ctx, h.DB, lg, false)
	if err != nil {
		t.Fatal(err)
	}
	if failed != 0 {
		t.Fatalf("시드 실패 %d건", failed)
	}

	want := map[string]int64{
		"users":               2,
		"instructors":         3,
		"lectures":            4,
		"instructor_lectures": 4,
		"students":            0,
		"student_lectures":    0,
		"attendance_records":  0,
	}
	got := tableCounts(t, ctx, h)
	for table, n := range want {
		if got[table] != n {
			t.Fatalf("%s = %d, want %d", table, got[table], n)
		}
	}

	// 평문이 저장되면 안 된다
	var stored string
	if err := h.DB.QueryRowContext(ctx,
		`SELECT password FROM users WHERE username = 'admin'`).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored == db.DefaultAdminPassword {
		t.Fatal("비밀번호가 평문으로 저장됨")
	}
	if !strings.HasPrefix(stored, "$2") {
		t.Fatalf("bcrypt 해시가 아님: %q", stored[:4])
	}

	// 해시 검증 경로
	u, err := db.Authenticate(ctx, h.DB, "admin", db.DefaultAdminPassword)
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "admin" || u.LastLoginAt == nil {
		t.Fatalf("authenticate 결과 이상: %+v", u)
	}
	if _, err := db.Authenticate(ctx, h.DB, "admin", "wrong"); !errors.Is(err, db.ErrBadCredentials) {
		t.Fatalf("잘못된 비밀번호인데 err = %v", err)
	}

	// 비활성 계정 거부
	if _, err := h.DB.ExecContext(ctx,
		`UPDATE users SET is_active = 0 WHERE username = 'director'`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Authenticate(ctx, h.DB, "director", db.DefaultAdminPassword); !errors.Is(err, db.ErrUserInactive) {
		t.Fatalf("비활성 계정인데 err = %v", err)
	}
}

func TestSeed_RerunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	lg := zap.NewNop().Sugar()
	if _, err := db.Seed(ctx, h.DB, lg, true); err != nil {
		t.Fatal(err)
	}
	first := tableCounts(t, ctx, h)
	if first["students"] == 0 || first["student_lectures"] == 0 {
		t.Fatalf("데모 시드가 안 들어감: %+v", first)
	}

	if failed, err := db.Seed(ctx, h.DB, lg, true); err != nil || failed != 0 {
		t.Fatalf("재실행: failed=%d err=%v", failed, err)
	}
	second := tableCounts(t, ctx, h)
	for table, n := range first {
		if second[table] != n {
			t.Fatalf("재실행 후 %s: %d → %d", table, n, second[table])
		}
	}

	// 재실행해도 기존 해시가 덮어써지지 않는다 (INSERT IGNORE)
	if _, err := db.Authenticate(ctx, h.DB, "admin", db.DefaultAdminPassword); err != nil {
		t.Fatal(err)
	}
}

// 개별 시드 실패는 전체를 멈추지 않되 실패 건수로 보고되어야 한다.
func TestSeed_ReportsFailedInserts(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	// 배정 시드 4건만 실패하도록 대상 테이블을 치운다
	if _, err := h.DB.ExecContext(ctx, `DROP TABLE instructor_lectures`); err != nil {
		t.Fatal(err)
	}

	failed, err := db.Seed(ctx, h.DB, zap.NewNop().Sugar(), false)
	if err != nil {
		t.Fatal(err)
	}
	if failed != 4 {
		t.Fatalf("실패 건수 = %d, want 4", failed)
	}

	// 나머지 시드는 계속 진행됐어야 한다
	for table, want := range map[string]int64{"users": 2, "instructors": 3, "lectures": 4} {
		var n int64
		if err := h.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Fatalf("%s = %d, want %d", table, n, want)
		}
	}
}
