package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"agent-directory/internal/api"
	"agent-directory/internal/ingest"
	"agent-directory/internal/notifier"
	"agent-directory/internal/review"
	"agent-directory/internal/storage"
	"agent-directory/internal/submission"
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

type importer interface {
	Bulk(ctx context.Context, records []map[string]any) ingest.Result
	CSV(ctx context.Context, text string) (ingest.Result, error)
}

// appDeps 汇总运行时组件。
type appDeps struct {
	handler  http.Handler
	importer importer
}

type depsBuilder func(AppConfig, *logrus.Logger) (appDeps, func(), error)

// buildApp 打开数据库并组装导入、提交、审核与 HTTP 层。
func buildApp(cfg AppConfig, logger *logrus.Logger) (appDeps, func(), error) {
	store, err := storage.NewStore(cfg.Database)
	if err != nil {
		return appDeps{}, func() {}, fmt.Errorf("init store: %w", err)
	}
	cleanup := func() { _ = store.Close() }

	base := logrus.NewEntry(logger)
	notif := notifier.Multi{notifier.NewLogNotifier(base)}
	if cfg.Email.Complete() {
		notif = append(notif, notifier.NewEmailNotifier(cfg.Email, nil))
	} else {
		base.WithField("component", "notifier").Info("email notifier disabled: missing host/port/from/to")
	}

	ing := ingest.New(store, base)
	deps := appDeps{
		importer: ing,
		handler: api.NewHandler(api.Deps{
			Agents:      store,
			Importer:    ing,
			Submissions: submission.NewService(store, notif, base),
			Reviewer:    review.NewEngine(review.Transactional(store.Transaction), base),
			Auth:        cfg.Auth,
			CORSOrigins: cfg.CORS.AllowedOrigins,
			Logger:      base,
		}),
	}
	return deps, cleanup, nil
}

// runServer 启动 HTTP 服务，ctx 取消后在 timeout 内优雅关闭。
func runServer(ctx context.Context, srv httpServer, timeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func serve(ctx context.Context, cfg AppConfig, logger *logrus.Logger, build depsBuilder) error {
	deps, cleanup, err := build(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           deps.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.WithField("addr", cfg.Server.Addr).Info("listening")
	return runServer(ctx, srv, cfg.Server.ShutdownTimeout)
}
