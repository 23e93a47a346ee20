package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	Charset    string

	HTTPAddr  string // 빈 값이면 ops 서버를 띄우지 않음
	LogLevel  string
	Env       string // dev|prod
	SentryDSN string

	SeedDemo      bool          // 데모 학생/수강 시드 포함 여부
	WatchInterval time.Duration // watch 모드 재계산 주기
}

func Load() (*Config, error) {
	port, err := parsePort(getenv("DB_PORT", "3306"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}

	interval, err := time.ParseDuration(getenv("WATCH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("WATCH_INTERVAL: %w", err)
	}

	cfg := &Config{
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     port,
		DBUser:     getenv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // 로컬 기본은 빈 패스워드
		DBName:     getenv("DB_NAME", "academy_db"),
		Charset:    getenv("DB_CHARSET", "utf8mb4"),

		HTTPAddr:  os.Getenv("HTTP_ADDR"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		Env:       getenv("ENV", "dev"),
		SentryDSN: os.Getenv("SENTRY_DSN"),

		SeedDemo:      getenv("SEED_DEMO", "0") == "1",
		WatchInterval: interval,
	}
	return cfg, nil
}

// DSN — go-sql-driver 형식. parseTime 은 DATE/DATETIME 스캔에 필수.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=true&loc=Local",
		c.DBUser, c.DBPassword, net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)), c.DBName, c.Charset)
}

// ServerDSN — 데이터베이스 미지정 DSN. CREATE DATABASE 단계에서만 사용.
func (c *Config) ServerDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/?charset=%s",
		c.DBUser, c.DBPassword, net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)), c.Charset)
}

func parsePort(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad port %q: %w", s, err)
	}
	if n <= 0 || n > 65535 {
		return 0, fmt.Errorf("port out of range: %d", n)
	}
	return n, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
