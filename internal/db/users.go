package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hakwonplus/academy-db/internal/models"
)

var (
	ErrBadCredentials = errors.New("잘못된 계정 또는 비밀번호")
	ErrUserInactive   = errors.New("비활성 계정")
)

func CreateUser(ctx context.Context, database *sql.DB, u models.User, plainPassword string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	res, err := database.ExecContext(ctx, `
INSERT INTO users (username, password, name, email, role)
VALUES (?, ?, ?, ?, ?)`, u.Username, string(hash), u.Name, u.Email, string(u.Role))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func GetUserByUsername(ctx context.Context, database *sql.DB, username string) (*models.User, error) {
	row := database.QueryRowContext(ctx, `
SELECT id, username, password, name, email, role, is_active, last_login_at, created_at, updated_at
FROM users WHERE username = ?`, username)

	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email,
		&role, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// Authenticate — bcrypt 비교 성공 시 last_login_at 을 갱신하고 사용자 반환.
// 계정 없음과 비밀번호 불일치는 같은 오류로 합친다.
func Authenticate(ctx context.Context, database *sql.DB, username, password string) (*models.User, error) {
	u, err := GetUserByUsername(ctx, database, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	if err := TouchLastLogin(ctx, database, u.ID); err != nil {
		return nil, err
	}
	now := time.Now()
	u.LastLoginAt = &now
	return u, nil
}

func TouchLastLogin(ctx context.Context, database *sql.DB, id int64) error {
	_, err := database.ExecContext(ctx,
		`UPDATE users SET last_login_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
