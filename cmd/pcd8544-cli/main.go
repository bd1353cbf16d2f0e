// Command pcd8544-cli shows text, the IP address, the time or a file on a PCD8544 LCD.
//
//	pcd8544-cli [options] <text to display>
//
// Set DISPLAY_DEBUG to log controller traffic to standard error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/pcd8544"
	"github.com/BeatGlow/pcd8544/internal/cli"
	"github.com/BeatGlow/pcd8544/internal/sysinfo"
)

func main() {
	if os.Getenv("DISPLAY_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, openDisplay, cli.ShellRunner{}, os.Stdout)
	stop()
	os.Exit(code)
}

// openDisplay initializes the host drivers and opens the panel on the default wiring.
func openDisplay() (pcd8544.Display, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("GPIO setup failed: %w", err)
	}
	d, err := cli.Open(cli.DefaultPins, cli.DefaultContrast)
	if err != nil {
		return nil, fmt.Errorf("display setup failed: %w", err)
	}
	log.Debugf("using display on pins %+v", cli.DefaultPins)
	return d, nil
}

// run executes the command line in args, program name first, and returns the exit code.
func run(ctx context.Context, args []string, open func() (pcd8544.Display, error), runner cli.Runner, stdout io.Writer) int {
	output, err := open()
	if err != nil {
		return fatal(stdout, err)
	}
	output.Clear()

	if info, err := sysinfo.Query(); err != nil {
		fmt.Fprintln(stdout, "sysinfo error:", err)
	} else {
		log.Debugf("host: %s", info)
	}

	var program string
	if len(args) > 0 {
		program, args = filepath.Base(args[0]), args[1:]
	}
	d := &cli.Dispatcher{
		Screen:  output,
		Runner:  runner,
		Stdout:  stdout,
		Program: program,
	}
	if err = d.Run(ctx, args); err != nil {
		if errors.Is(err, cli.ErrTooManyArguments) || errors.Is(err, cli.ErrMissingPath) {
			return 1
		}
		return fatal(stdout, err)
	}

	// A refreshing mode was interrupted: blank the panel rather than leave a stale frame.
	// Single-shot content stays on the panel after exit.
	if ctx.Err() != nil {
		if err = output.Close(); err != nil {
			log.WithError(err).Warn("display close failed")
		}
	}
	return 0
}

func fatal(w io.Writer, err error) int {
	fmt.Fprintln(w, "fatal: "+err.Error())
	return 1
}
