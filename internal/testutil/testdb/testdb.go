//go:build testutil
// +build testutil

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	tc "github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"go.uber.org/zap"

	"github.com/hakwonplus/academy-db/internal/db"
)

type DBHandle struct {
	DB     *sql.DB
	Report *db.Report // Start 가 돌린 1차 마이그레이션 결과
	cancel func()
	stop   func(context.Context) error
}

func (h *DBHandle) Close() {
	if h.DB != nil {
		_ = h.DB.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start — 일회용 MySQL 컨테이너를 올리고 전체 마이그레이션을 적용한다.
// 시드는 일부러 하지 않는다: 테스트가 스스로 제어한다.
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)

	c, err := tcmysql.RunContainer(ctx,
		tc.WithImage("mysql:8.0"),
		tcmysql.WithDatabase("academy_db"),
		tcmysql.WithUsername("academy"),
		tcmysql.WithPassword("academy"),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	uri, err := c.ConnectionString(ctx, "parseTime=true", "charset=utf8mb4", "multiStatements=true")
	if err != nil {
		_ = c.Terminate(ctx)
		cancel()
		return nil, err
	}

	database, err := sql.Open("mysql", uri)
	if err != nil {
		_ = c.Terminate(ctx)
		cancel()
		return nil, err
	}
	if err := waitReady(ctx, database); err != nil {
		_ = c.Terminate(ctx)
		cancel()
		return nil, err
	}

	report := db.Migrate(ctx, database, zap.NewNop().Sugar())
	if !report.OK() {
		_ = database.Close()
		_ = c.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("initial migration failed: %s", report.Summary())
	}

	return &DBHandle{
		DB:     database,
		Report: report,
		cancel: cancel,
		stop:   c.Terminate,
	}, nil
}

func waitReady(ctx context.Context, database *sql.DB) error {
	dead := time.Now().Add(30 * time.Second)
	for time.Now().Before(dead) {
		if err := database.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return errors.New("db not ready")
}
