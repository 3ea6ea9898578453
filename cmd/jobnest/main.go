package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"jobnest/internal/app"
	"jobnest/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stdin); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, args []string, stdout io.Writer, stdin io.Reader) error {
	global := flag.NewFlagSet("jobnest", flag.ContinueOnError)
	global.SetOutput(stdout)
	asJSON := global.Bool("json", false, "print JSON instead of tables")
	verbose := global.Bool("v", false, "log requests and connection events to stderr")
	global.Usage = func() { printUsage(stdout) }
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		printUsage(stdout)
		return flag.ErrHelp
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	c, err := app.NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	c.Session.Restore(ctx)

	cl := &cli{c: c, out: stdout, in: stdin, json: *asJSON}
	return cl.dispatch(ctx, global.Args())
}
