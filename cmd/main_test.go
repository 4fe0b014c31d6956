package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/ticketscan/internal/app"
	"github.com/okian/ticketscan/internal/config"
	"github.com/okian/ticketscan/pkg/logger"
)

func newTestService(t *testing.T) (*service.Service, *config.Config) {
	t.Helper()
	ctx := context.Background()
	cfg := config.New()
	cfg.StorageDriver = config.StorageMemory
	cfg.MaxUploadBytes = 1 << 10
	svc, err := service.NewFromConfig(ctx, cfg, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	return svc, cfg
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given the assembled mux", t, func() {
		svc, cfg := newTestService(t)
		mux := newMux(svc, cfg, logger.Nop())

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		convey.Convey("Then the upload page, docs and API are all served", func() {
			convey.So(get("/").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/metrics").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/stats").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/winning-numbers").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/history").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And the configured upload limit applies", func() {
			req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(strings.Repeat("x", 2<<10)))
			req.Header.Set("Content-Type", "image/png")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		convey.Convey("And text checks go through the real pipeline", func() {
			body := `{"text":"SINGAPORE POOLS TOTO\nDRAW 20/01/2026\nA. 01 05 12 23 34 45"}`
			req := httptest.NewRequest(http.MethodPost, "/tickets/text", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"tier":"GROUP1"`)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.StorageDriver = config.StorageMemory

		convey.Convey("Then run starts and shuts down cleanly", func() {
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Nop()) }()
			select {
			case err := <-done:
				convey.So(err, convey.ShouldBeNil)
			case <-time.After(5 * time.Second):
				t.Fatal("run did not return")
			}
		})
	})

	convey.Convey("Given an address that cannot be bound", t, func() {
		cfg := config.New()
		cfg.Addr = "256.0.0.1:99999"
		cfg.StorageDriver = config.StorageMemory

		convey.Convey("Then run reports the listen error", func() {
			err := run(context.Background(), cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc, _ := newTestService(t)

		convey.Convey("Then one-off updates do not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("And the updaters stop with their context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})
	})
}
