package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/kievzenit/rblang/internal/config"
	"github.com/kievzenit/rblang/internal/driver"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rbc: %v\n", err)
		os.Exit(1)
	}

	runner := &driver.Runner{
		Pipeline: driver.Pipeline{
			DumpTokens: cfg.DumpTokens,
			DumpAST:    cfg.DumpAST,
		},
		Jobs:   cfg.Jobs,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Watch {
		err = runner.Watch(ctx, cfg.Sources, nil)
	} else {
		err = runner.CheckFiles(ctx, cfg.Sources)
	}

	if err != nil {
		stop()
		os.Exit(1)
	}
}
