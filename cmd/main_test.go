package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/dugout/internal/adapters/repository"
	"github.com/okian/dugout/internal/config"
	"github.com/okian/dugout/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		ctx := context.Background()

		convey.Convey("When configuration comes from the environment", func() {
			setEnv(t, map[string]string{
				"DUGOUT_ADDR":         ":8080",
				"DUGOUT_QUEUE_SIZE":   "1000",
				"DUGOUT_WORKER_COUNT": "4",
			})
			cfg, err := config.Load(ctx)

			convey.Convey("Then it is loaded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When logging to a file is configured", func() {
			cfg := config.New()
			cfg.LogFile = filepath.Join(t.TempDir(), "dugout.log")

			convey.Convey("Then a file option is added", func() {
				convey.So(loggerOptions(cfg), convey.ShouldHaveLength, 2)
				convey.So(loggerOptions(config.New()), convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When the service and routes are built from config", func() {
			cfg := config.New()
			cfg.WorkerCount = 1
			store := repository.NewMemoryStore()
			convey.So(repository.LoadSeed(ctx, store, filepath.Join("testdata", "seed.yaml")), convey.ShouldBeNil)
			svc := newService(cfg, store, logger.Get())
			mux := newMux(ctx, svc)

			convey.Convey("Then the API and docs are served", func() {
				for _, path := range []string{"/healthz", "/stats", "/openapi.yaml", "/api-docs", "/teams/hawks/breakdown", "/players/ana/goals"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})

			convey.Convey("Then the metric updaters run without panicking", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				convey.So(func() { updateSystemMetrics() }, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
				convey.So(svc.Stop(ctx), convey.ShouldBeNil)
			})

			convey.Convey("Then the updaters return when the context ends", func() {
				cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
				defer cancel()
				convey.So(func() { startSystemMetricsUpdater(cctx) }, convey.ShouldNotPanic)
				convey.So(func() { startServiceMetricsUpdater(cctx, svc) }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given the run loop", t, func() {
		convey.Convey("When the configuration is invalid", func() {
			setEnv(t, map[string]string{"DUGOUT_ADDR": ""})
			err := run(context.Background())

			convey.Convey("Then it fails before starting anything", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load config")
			})
		})

		convey.Convey("When the seed file is missing", func() {
			setEnv(t, map[string]string{
				"DUGOUT_ADDR":      "127.0.0.1:0",
				"DUGOUT_SEED_FILE": filepath.Join(t.TempDir(), "missing.yaml"),
			})
			err := run(context.Background())

			convey.Convey("Then it reports the seed error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load seed")
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			setEnv(t, map[string]string{
				"DUGOUT_ADDR":         "127.0.0.1:0",
				"DUGOUT_WORKER_COUNT": "1",
				"DUGOUT_SEED_FILE":    filepath.Join("testdata", "seed.yaml"),
				"DUGOUT_LOG_LEVEL":    "loud",
			})
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			convey.Convey("Then it starts and shuts down cleanly", func() {
				convey.So(run(ctx), convey.ShouldBeNil)
			})
		})

		convey.Reset(func() {
			// run re-initializes the global logger; point it back at stderr.
			_ = logger.Init(logger.WithWriter(os.Stderr))
		})
	})
}
