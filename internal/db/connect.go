package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/hakwonplus/academy-db/internal/config"
)

// EnsureDatabase — 스키마 DB 자체가 없을 수 있으므로 서버 레벨 접속으로 먼저 생성한다.
// 이미 존재하면 IF NOT EXISTS 로 조용히 통과.
func EnsureDatabase(ctx context.Context, cfg *config.Config) error {
	server, err := sql.Open("mysql", cfg.ServerDSN())
	if err != nil {
		return fmt.Errorf("open server connection: %w", err)
	}
	defer server.Close()

	if err := server.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s:%d: %w", cfg.DBHost, cfg.DBPort, err)
	}

	stmt := fmt.Sprintf(
		"CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET %s COLLATE %s_unicode_ci",
		cfg.DBName, cfg.Charset, cfg.Charset)
	if _, err := server.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create database %s: %w", cfg.DBName, err)
	}
	return nil
}

// Open — 대상 DB 접속. 접속 실패는 전체 실행을 중단시키는 유일한 치명적 오류다.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	database, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBName, err)
	}
	database.SetConnMaxLifetime(3 * time.Minute)
	database.SetMaxOpenConns(4)
	database.SetMaxIdleConns(4)

	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DBName, err)
	}
	return database, nil
}
