package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hakwonplus/academy-db/internal/app"
	"github.com/hakwonplus/academy-db/internal/config"
	"github.com/hakwonplus/academy-db/internal/ctxutil"
	"github.com/hakwonplus/academy-db/internal/db"
	"github.com/hakwonplus/academy-db/internal/export"
	"github.com/hakwonplus/academy-db/internal/jobs"
	"github.com/hakwonplus/academy-db/internal/logging"
	"github.com/hakwonplus/academy-db/internal/observability"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// .env 없이 환경 변수만으로도 돈다
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return 1
	}
	defer lg.Closer()
	sugar := lg.Sugar

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "academy-db@"+version)
	if err != nil {
		sugar.Warnf("sentry 초기화 실패: %v", err)
	}
	defer closeSentry()

	cmd := "migrate"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = ctxutil.WithOp(ctx, cmd)

	// 접속 실패만이 실행 전체를 중단시킨다
	if err := db.EnsureDatabase(ctx, cfg); err != nil {
		sugar.Errorf("❌ 데이터베이스 준비 실패: %v", err)
		observability.CaptureErr(err)
		return 1
	}
	database, err := db.Open(ctx, cfg)
	if err != nil {
		sugar.Errorf("❌ 데이터베이스 접속 실패: %v", err)
		observability.CaptureErr(err)
		return 1
	}
	defer database.Close()

	if cfg.HTTPAddr != "" {
		app.StartHTTP(ctx, cfg.HTTPAddr, database)
		sugar.Infof("ops 서버 시작: %s", cfg.HTTPAddr)
	}

	switch cmd {
	case "migrate":
		report := db.Migrate(ctx, database, sugar)
		seedFailed, err := db.Seed(ctx, database, sugar, cfg.SeedDemo)
		if err != nil {
			sugar.Errorf("❌ 시드 실패: %v", err)
			observability.CaptureErr(err)
			return 1
		}
		if _, err := db.Verify(ctx, database, sugar); err != nil {
			sugar.Errorf("❌ 검증 실패: %v", err)
			return 1
		}
		// 실패한 마이그레이션 단계든 시드든, 하나라도 있으면 종료 코드로 드러낸다
		if !report.OK() || seedFailed > 0 {
			return 1
		}
		return 0

	case "seed":
		failed, err := db.Seed(ctx, database, sugar, cfg.SeedDemo)
		if err != nil {
			sugar.Errorf("❌ 시드 실패: %v", err)
			return 1
		}
		if failed > 0 {
			return 1
		}
		return 0

	case "verify":
		if _, err := db.Verify(ctx, database, sugar); err != nil {
			sugar.Errorf("❌ 검증 실패: %v", err)
			return 1
		}
		return 0

	case "export":
		return runExport(ctx, sugar, database)

	case "watch":
		return runWatch(ctx, cfg, sugar, database)

	default:
		sugar.Errorf("알 수 없는 명령: %s (migrate|seed|verify|export|watch)", cmd)
		return 1
	}
}

func runExport(ctx context.Context, sugar *zap.SugaredLogger, database *sql.DB) int {
	students, err := db.ListStudents(ctx, database, false)
	if err != nil {
		sugar.Errorf("❌ 원생 조회 실패: %v", err)
		return 1
	}
	records, err := db.ListAttendanceByDay(ctx, database, time.Now())
	if err != nil {
		sugar.Errorf("❌ 출결 조회 실패: %v", err)
		return 1
	}

	wb, err := export.NewWorkbook([]export.SheetSpec{
		export.RosterSheet(students),
		export.AttendanceSheet(records),
	})
	if err != nil {
		sugar.Errorf("❌ 통합 문서 생성 실패: %v", err)
		return 1
	}
	path, err := wb.SaveTemp("academy")
	if err != nil {
		sugar.Errorf("❌ 저장 실패: %v", err)
		return 1
	}
	sugar.Infof("✅ 내보내기 완료: %s", path)
	return 0
}

func runWatch(ctx context.Context, cfg *config.Config, sugar *zap.SugaredLogger, database *sql.DB) int {
	runner := jobs.New(ctx)
	runner.Every(cfg.WatchInterval, "recount", func(ctx context.Context) error {
		changed, err := db.RecountAllLectures(ctx, database)
		if err != nil {
			sugar.Errorf("❌ 재계산 실패: %v", err)
			return err
		}
		if changed > 0 {
			sugar.Warnf("current_students 드리프트 보정: %d개 강의", changed)
		}
		return nil
	})
	sugar.Infof("watch 모드 시작 (주기 %s)", cfg.WatchInterval)
	<-ctx.Done()
	sugar.Info("watch 모드 종료")
	return 0
}
