package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/ticketscan/internal/cli"
	"github.com/okian/ticketscan/pkg/logger"
)

const defaultTimeout = 2 * time.Minute

func main() {
	var (
		image   = flag.String("image", "", "Ticket photo to check")
		text    = flag.String("text", "", `File with recognized ticket text ("-" for stdin)`)
		baseURL = flag.String("url", "", "Base URL of a running server; empty checks locally")
		winning = flag.String("winning", "", "Winning numbers table (YAML or JSON)")
		lang    = flag.String("lang", "", "Language of server error messages (en, zh, ms, ta)")
		timeout = flag.Duration("timeout", defaultTimeout, "Deadline for the whole check")
		verbose = flag.Bool("verbose", false, "Log pipeline stages to stderr")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		cli.ShowHelp(os.Stdout)
		return
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(cli.ExitFailure)
	}
	_ = logger.SetLevelString(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code, err := cli.Run(ctx, cli.Config{
		Image:   *image,
		Text:    *text,
		URL:     *baseURL,
		Winning: *winning,
		Lang:    *lang,
		Timeout: *timeout,
		Verbose: *verbose,
	}, os.Stdin, os.Stdout)
	stop()
	if err != nil {
		os.Stderr.WriteString("checkticket: " + err.Error() + "\n")
		if errors.Is(err, cli.ErrUsage) {
			cli.ShowHelp(os.Stderr)
		}
	}
	os.Exit(code)
}
