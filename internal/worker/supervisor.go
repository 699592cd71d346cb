// Package worker implements the process-level supervisor: the parent
// binds the shared, kernel-port-shared listening socket, re-execs
// itself once per logical worker with that socket inherited, and
// waits for the fleet -- mirroring the reference server's
// multiprocessing.Pool plus pool.terminate()/pool.join() on
// KeyboardInterrupt.
package worker

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joeycumines/logiface"
)

// workerFDFlag is the hidden flag the supervisor uses to tell a
// re-exec'd child which fd its inherited listening socket landed on.
// It is never documented to end users.
const workerFDFlag = "--worker-fd"

// inheritedFD is the fd a worker's listening socket always lands on:
// stdin, stdout and stderr occupy 0-2, and exec.Cmd.ExtraFiles places
// its single entry at 3.
const inheritedFD = 3

// Config describes the fleet to launch.
type Config struct {
	Workers int
	Port    int
	Root    string
	Verbose bool
	LogFile string
}

// BindFunc creates and binds the shared listening socket, returning
// its fd.
type BindFunc func(port int) (int, error)

// Supervise binds the shared socket, starts cfg.Workers children
// (each the same binary, re-invoked with the internal worker-fd flag
// and the socket passed via ExtraFiles), and waits for them all to
// exit. SIGINT/SIGTERM received by the supervisor are forwarded to
// every child before waiting.
func Supervise(cfg Config, log *logiface.Logger[logiface.Event], bind BindFunc) error {
	listenFD, err := bind(cfg.Port)
	if err != nil {
		return fmt.Errorf("worker: bind listener: %w", err)
	}
	defer func() { _ = syscall.Close(listenFD) }()

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("worker: resolve executable: %w", err)
	}

	listenerFile := os.NewFile(uintptr(listenFD), "listener")

	procs := make([]*exec.Cmd, 0, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		cmd := exec.Command(exe, workerArgs(cfg)...)
		cmd.ExtraFiles = []*os.File{listenerFile}
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("worker: start worker %d: %w", i, err)
		}
		log.Info().Int("pid", cmd.Process.Pid).Log("worker started")
		procs = append(procs, cmd)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	done := make(chan struct{})
	go func() {
		for _, p := range procs {
			_ = p.Wait()
		}
		close(done)
	}()

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Log("terminating workers")
		for _, p := range procs {
			_ = p.Process.Signal(s)
		}
		<-done
	case <-done:
	}
	return nil
}

func workerArgs(cfg Config) []string {
	args := []string{
		workerFDFlag, strconv.Itoa(inheritedFD),
		"-p", strconv.Itoa(cfg.Port),
		"-r", cfg.Root,
	}
	if cfg.Verbose {
		args = append(args, "-v")
	}
	if cfg.LogFile != "" {
		args = append(args, "--log-file", cfg.LogFile)
	}
	return args
}
