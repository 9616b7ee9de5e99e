// chessd serves two-player chess games over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/hailam/chessd/internal/board"
	"github.com/hailam/chessd/internal/config"
	"github.com/hailam/chessd/internal/events"
	"github.com/hailam/chessd/internal/httpapi"
	"github.com/hailam/chessd/internal/service"
	"github.com/hailam/chessd/internal/storage"
)

// eventBuffer is the number of events a slow subscriber may lag behind.
const eventBuffer = 32

func main() {
	fs := flag.NewFlagSet("chessd", flag.ContinueOnError)
	cpuprofile := fs.String("cpuprofile", os.Getenv("CHESSD_CPUPROFILE"), "write cpu profile to file")
	perft := fs.Int("perft", 0, "print the perft node count of -fen to this depth and exit")
	fen := fs.String("fen", board.StartFEN, "position for -perft")

	cfg, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := newLogger(cfg)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", *cpuprofile).Msg("CPU profiling enabled")
	}

	if *perft > 0 {
		if err := runPerft(*fen, *perft); err != nil {
			log.Error().Err(err).Msg("perft")
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var log zerolog.Logger
	if cfg.LogFormat == config.FormatConsole {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(cfg.Level()).With().Timestamp().Logger()
}

func run(cfg config.Config, log zerolog.Logger) error {
	dir := cfg.DataDir
	if !cfg.InMemory {
		var err error
		dir, err = storage.GetDatabaseDir(cfg.DataDir)
		if err != nil {
			return err
		}
	}

	repo, err := storage.Open(storage.Options{Dir: dir, InMemory: cfg.InMemory, Logger: log})
	if err != nil {
		return err
	}
	defer repo.Close()

	hub := events.NewHub(eventBuffer, log.With().Str("component", "events").Logger())
	svc := service.New(repo, hub, log)

	// Games that fail replay stay stored; requests for them return 500.
	if err := svc.VerifyAll(context.Background()); err != nil {
		log.Error().Err(err).Msg("integrity check")
	}

	srv := httpapi.NewServer(httpapi.NewRouter(log, svc, hub, cfg.RenderSize), log)

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(cfg.Addr) }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errc:
		hub.Close()
		return err
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
	}

	// Closing the hub ends open event streams so Shutdown does not wait on them.
	hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Close(ctx); err != nil {
		return err
	}
	return <-errc
}

func runPerft(fen string, depth int) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	start := time.Now()
	divide := pos.Divide(depth)

	lines := make([]string, 0, len(divide))
	var total int64
	for m, n := range divide {
		lines = append(lines, fmt.Sprintf("%s: %d", m, n))
		total += n
	}
	slices.Sort(lines)
	for _, l := range lines {
		fmt.Println(l)
	}

	elapsed := time.Since(start)
	fmt.Printf("\nNodes searched: %d\nTime: %v\n", total, elapsed.Round(time.Millisecond))
	return nil
}
