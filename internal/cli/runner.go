// Package cli implements the checkticket command.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	service "github.com/okian/ticketscan/internal/app"
	"github.com/okian/ticketscan/internal/config"
	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/pkg/logger"
)

type rejection struct {
	Code    string `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Run checks one ticket and writes the result JSON to out. It returns the
// process exit code; a non-nil error always comes with ExitFailure.
func Run(ctx context.Context, cfg Config, stdin io.Reader, out io.Writer) (int, error) {
	if (cfg.Image == "") == (cfg.Text == "") {
		return ExitFailure, ErrUsage
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if cfg.URL != "" {
		return runRemote(ctx, cfg, stdin, out)
	}
	return runLocal(ctx, cfg, stdin, out)
}

func runLocal(ctx context.Context, cfg Config, stdin io.Reader, out io.Writer) (int, error) {
	conf, err := config.Load(ctx)
	if err != nil {
		return ExitFailure, err
	}
	// A one-off check keeps no history.
	conf.StorageDriver = config.StorageMemory
	conf.UploadDir = ""
	if cfg.Winning != "" {
		conf.WinningNumbersPath = cfg.Winning
	}

	l := logger.Nop()
	if cfg.Verbose {
		l = logger.Get().Named("checkticket")
	}
	svc, err := service.NewFromConfig(ctx, conf, l)
	if err != nil {
		return ExitFailure, err
	}
	if err := svc.Start(ctx); err != nil {
		return ExitFailure, err
	}
	defer func() { _ = svc.Stop(context.WithoutCancel(ctx)) }()

	var res model.TicketResult
	if cfg.Image != "" {
		image, rerr := os.ReadFile(cfg.Image)
		if rerr != nil {
			return ExitFailure, fmt.Errorf("read image: %w", rerr)
		}
		res, err = svc.ProcessTicket(ctx, image)
	} else {
		text, rerr := readText(cfg.Text, stdin)
		if rerr != nil {
			return ExitFailure, rerr
		}
		res, err = svc.ProcessText(ctx, text)
	}

	if err != nil {
		if !model.IsRejection(err) {
			return ExitFailure, err
		}
		return ExitRejected, writeJSON(out, rejection{
			Code:    "ticket_rejected",
			Reason:  model.ReasonOf(err).String(),
			Message: err.Error(),
		})
	}
	if err := writeJSON(out, res); err != nil {
		return ExitFailure, err
	}
	return ExitOK, nil
}

func runRemote(ctx context.Context, cfg Config, stdin io.Reader, out io.Writer) (int, error) {
	c := newClient(cfg.URL, cfg.Lang, cfg.Timeout)

	var (
		r   reply
		err error
	)
	if cfg.Image != "" {
		image, rerr := os.ReadFile(cfg.Image)
		if rerr != nil {
			return ExitFailure, fmt.Errorf("read image: %w", rerr)
		}
		r, err = c.postImage(ctx, image)
	} else {
		text, rerr := readText(cfg.Text, stdin)
		if rerr != nil {
			return ExitFailure, rerr
		}
		r, err = c.postText(ctx, text)
	}
	if err != nil {
		return ExitFailure, err
	}

	switch r.status {
	case http.StatusOK:
		_, err = out.Write(r.body)
		if err != nil {
			return ExitFailure, err
		}
		return ExitOK, nil
	case http.StatusUnprocessableEntity:
		_, err = out.Write(r.body)
		if err != nil {
			return ExitFailure, err
		}
		return ExitRejected, nil
	}
	return ExitFailure, fmt.Errorf("%w: %d: %s", ErrServer, r.status, r.body)
}

func readText(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		if stdin == nil {
			return "", errors.New("no stdin")
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
