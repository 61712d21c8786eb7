package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cutekitek/cpjudge/internal/config"
	"github.com/cutekitek/cpjudge/internal/judge"
	"github.com/cutekitek/cpjudge/internal/suite"
)

func panicErr(err error) {
	if err != nil {
		panic(err)
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "info":
		slog.SetLogLoggerLevel(slog.LevelInfo)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}
}

func main() {
	configPath := flag.String("config", "cpjudge.yml", "path to the service configuration")
	language := flag.String("lang", "", "language to judge with (defaults to the configured one)")
	flag.Parse()
	problem := flag.Arg(0)
	if problem == "" {
		fmt.Fprintln(os.Stderr, "usage: cpjudge [-config path] [-lang name] <problem>")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	panicErr(err)
	setLogLevel(cfg.LogLevel)

	suitePath, err := cfg.SuitePath(problem)
	panicErr(err)
	s, err := suite.Load(suitePath, problem)
	panicErr(err)
	plan, err := cfg.Plan(*language, s)
	panicErr(err)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("judging", "problem", problem, "suite", suitePath, "cases", len(s.CaseIDs()))
	report, err := judge.New(plan, slog.Default()).Run(ctx)
	if err != nil {
		slog.Error("judging aborted", "error", err)
		os.Exit(1)
	}

	for _, e := range report.Entries {
		fmt.Printf("%-24s %-22s %v\n", e.CaseID, e.Verdict.String(), e.Elapsed.Round(time.Millisecond))
		if e.Verdict.Detail != "" {
			fmt.Printf("    %s\n", e.Verdict.Detail)
		}
	}
	if n := report.Failed(); n > 0 {
		fmt.Printf("%d/%d cases failed\n", n, len(report.Entries))
		os.Exit(1)
	}
	fmt.Printf("all %d cases passed\n", len(report.Entries))
}
