package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/hakwonplus/academy-db/internal/metrics"
)

const (
	pingTimeout     = 800 * time.Millisecond
	shutdownTimeout = 3 * time.Second
)

type OpsServer struct {
	srv *http.Server
}

// StartHTTP — 긴 마이그레이션이나 watch 모드 동안 배포 스크립트가 진행 상황을
// 긁어갈 수 있도록 /healthz 와 /metrics 를 연다. ctx 취소 시 정리된다.
func StartHTTP(ctx context.Context, addr string, database *sql.DB) *OpsServer {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe()
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &OpsServer{srv: srv}
}

func (s *OpsServer) Addr() string { return s.srv.Addr }
