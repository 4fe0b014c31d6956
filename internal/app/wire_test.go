package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/ticketscan/internal/adapters/repository"
	service "github.com/okian/ticketscan/internal/app"
	"github.com/okian/ticketscan/internal/config"
	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
	"github.com/okian/ticketscan/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// namesLogger discards entries and remembers every child name it hands out.
type namesLogger struct {
	mu    *sync.Mutex
	names *[]string
	name  string
}

func newNamesLogger() namesLogger {
	return namesLogger{mu: &sync.Mutex{}, names: &[]string{}}
}

func (l namesLogger) Info(context.Context, string, ...logger.Field)  {}
func (l namesLogger) Error(context.Context, string, ...logger.Field) {}
func (l namesLogger) Debug(context.Context, string, ...logger.Field) {}
func (l namesLogger) Warn(context.Context, string, ...logger.Field)  {}
func (l namesLogger) Fatal(context.Context, string, ...logger.Field) {}

func (l namesLogger) Named(name string) logger.Logger {
	full := name
	if l.name != "" {
		full = l.name + "." + name
	}
	l.mu.Lock()
	*l.names = append(*l.names, full)
	l.mu.Unlock()
	return namesLogger{mu: l.mu, names: l.names, name: full}
}

func (l namesLogger) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), *l.names...)
}

func TestNewFromConfig(t *testing.T) {
	Convey("Given a configuration", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.StorageDriver = config.StorageMemory

		Convey("When the service is built with the demo draw", func() {
			svc, err := service.NewFromConfig(ctx, cfg, nil)
			So(err, ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop(ctx)

			Convey("Then tickets are checked against it", func() {
				res, err := svc.ProcessText(ctx, winningTOTO)
				So(err, ShouldBeNil)
				So(res.Tier, ShouldEqual, types.TierGroup1)
				So(svc.Winning().DrawDate, ShouldEqual, model.DefaultWinningNumbers().DrawDate)
				So(svc.GetStats()["ocrEnabled"], ShouldBeTrue)
			})
		})

		Convey("When a logger is supplied", func() {
			l := newNamesLogger()
			svc, err := service.NewFromConfig(ctx, cfg, l)
			So(err, ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop(ctx)

			Convey("Then every component logs under its own name", func() {
				names := l.all()
				for _, want := range []string{"normalize", "classify", "validate", "pipeline", "repository", "ocr", "service", "service.history"} {
					So(names, ShouldContain, want)
				}
			})
		})

		Convey("When a winning table file is configured", func() {
			path := filepath.Join(t.TempDir(), "draw.yaml")
			table := "draw_date: \"2026-02-03\"\n" +
				"toto:\n  numbers: [2, 4, 6, 8, 10, 12]\n  additional: 14\n" +
				"four_d:\n  first: 1\n  second: 2\n  third: 3\n" +
				"  starter: [10, 11, 12, 13, 14, 15, 16, 17, 18, 19]\n" +
				"  consolation: [20, 21, 22, 23, 24, 25, 26, 27, 28, 29]\n"
			So(os.WriteFile(path, []byte(table), 0o600), ShouldBeNil)
			cfg.WinningNumbersPath = path

			svc, err := service.NewFromConfig(ctx, cfg, nil)
			So(err, ShouldBeNil)

			Convey("Then the service uses it", func() {
				So(svc.Winning().DrawDate, ShouldEqual, "2026-02-03")
				So(svc.Winning().TOTO.Additional, ShouldEqual, 14)
			})
		})

		Convey("When the winning table is missing", func() {
			cfg.WinningNumbersPath = filepath.Join(t.TempDir(), "absent.yaml")
			_, err := service.NewFromConfig(ctx, cfg, nil)

			Convey("Then construction fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the storage driver is unknown", func() {
			cfg.StorageDriver = "mongo"
			_, err := service.NewFromConfig(ctx, cfg, nil)

			Convey("Then the store error is returned", func() {
				So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
			})
		})
	})
}
