package ctxutil

import (
	"context"
	"time"
)

// 충돌 방지용 비공개 키 타입
type key int

const (
	keyOpName key = iota
	keyDeviceID
)

// WithOp /Op — 작업 이름 (로그용)
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// WithDeviceID /DeviceID — 출결 태깅 기기 식별자
func WithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyDeviceID, id)
}

func DeviceID(ctx context.Context) (string, bool) {
	v := ctx.Value(keyDeviceID)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

var (
	// 조회/단건 쓰기용 기본 타임아웃. DDL 에는 걸지 않는다.
	DefaultDBTimeout = 5 * time.Second
)

// WithDBTimeout — 부모 데드라인이 더 짧으면 남은 시간을 쓴다.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
