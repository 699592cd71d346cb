// Command plainhttpd serves static files over HTTP/1.0, GET and HEAD
// only, from a configured document root, across N worker processes
// sharing one listening port via SO_REUSEPORT.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	flags "github.com/canonical/go-flags"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/plainhttpd/internal/httpserver"
	"github.com/joeycumines/plainhttpd/internal/ioloop"
	"github.com/joeycumines/plainhttpd/internal/logging"
	"github.com/joeycumines/plainhttpd/internal/worker"
)

type options struct {
	Workers  int    `short:"w" long:"workers" description:"number of worker processes" default:"-1"`
	Port     int    `short:"p" long:"port" description:"listening TCP port" default:"80"`
	Root     string `short:"r" long:"root" description:"document root" default:"./tests"`
	Verbose  bool   `short:"v" long:"verbose" description:"enable debug logging"`
	LogFile  string `long:"log-file" description:"log file path" default:"wwwotus.log"`
	WorkerFD int    `long:"worker-fd" description:"inherited listening socket fd, set by the supervisor" default:"-1" hidden:"true"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Options(flags.HelpFlag|flags.PassDoubleDash))
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	level := logiface.LevelInformational
	if opts.Verbose {
		level = logiface.LevelDebug
	}

	logFile, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "plainhttpd: open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logFile.Close() }()

	log := logging.New(logFile, level, os.Getpid())

	if opts.WorkerFD >= 0 {
		runWorker(opts, log)
		return
	}

	cfg := worker.Config{
		Workers: opts.Workers,
		Port:    opts.Port,
		Root:    opts.Root,
		Verbose: opts.Verbose,
		LogFile: opts.LogFile,
	}
	if err := worker.Supervise(cfg, log, httpserver.BindListener); err != nil {
		log.Err(err).Log("supervisor exited with error")
		os.Exit(1)
	}
}

// runWorker becomes a single worker process, serving requests against
// the listening socket the supervisor passed via opts.WorkerFD until
// its event loop exits.
func runWorker(opts options, log *logiface.Logger[logiface.Event]) {
	loop := ioloop.NewLoop(ioloop.NewPoller(true))
	listener := httpserver.NewListener(opts.WorkerFD, opts.Root, log, loop)
	loop.Register(listener)

	log.Info().Int("port", opts.Port).Str("root", opts.Root).Log("worker ready")
	if err := loop.Run(context.Background()); err != nil {
		log.Err(err).Log("event loop exited with error")
		os.Exit(1)
	}
}
