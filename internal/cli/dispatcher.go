// Package cli implements the pcd8544-cli command: it picks what to show on the panel from the
// command line and keeps it up to date.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BeatGlow/pcd8544/internal/strutil"
)

// MaxArgs is the largest number of arguments accepted after the program name.
const MaxArgs = 2

// DefaultInterval is the pause between redraws in the refreshing modes.
const DefaultInterval = 100 * time.Millisecond

// Errors
var (
	ErrTooManyArguments = errors.New("cli: only one or two arguments expected")
	ErrMissingPath      = errors.New("cli: option -f requires a file path")
)

// Screen is the part of a display the dispatcher draws on.
type Screen interface {
	// Clear the display buffer.
	Clear()

	// DrawString writes text to the display buffer starting at character cell (row, column).
	DrawString(row, column int, text string)

	// Refresh sends the display buffer to the panel.
	Refresh() error
}

// Dispatcher selects the content from the command line and draws it.
type Dispatcher struct {
	// Screen receives the content.
	Screen Screen

	// Runner runs the address and clock commands.
	Runner Runner

	// Stdout receives usage and error messages, os.Stdout if nil.
	Stdout io.Writer

	// Program is the name used in messages.
	Program string

	// Interval between redraws, DefaultInterval if zero.
	Interval time.Duration

	// ReadFile reads the file shown by -f, os.ReadFile if nil.
	ReadFile func(name string) ([]byte, error)
}

// Run processes args (without the program name). Arguments are scanned left to right and the last
// selected content is drawn once, unless -d or -f is reached: those redraw until ctx is done and
// then return nil. Arguments after them are ignored.
func (d *Dispatcher) Run(ctx context.Context, args []string) error {
	if len(args) > MaxArgs {
		d.println("Only one or two argument expected")
		return ErrTooManyArguments
	}

	var content string
	if len(args) > 0 {
		content = args[0]
	}

	for i, arg := range args {
		mode := ParseMode(arg)
		if mode != ModeLiteral {
			log.WithFields(log.Fields{"mode": mode, "loops": mode.Loops()}).Debugf("cli: argument %q", arg)
		}

		switch mode {
		case ModeAddress:
			content = d.run(ctx, AddressCommand, d.reporter())

		case ModeHelp:
			d.usage()
			content = ""

		case ModeClock:
			report := d.reporter()
			return d.loop(ctx, func() string {
				return d.run(ctx, ClockCommand, report)
			})

		case ModeFile:
			if i+1 >= len(args) {
				d.println("option -f requires a file path")
				return ErrMissingPath
			}
			var (
				path   = args[i+1]
				report = d.reporter()
			)
			return d.loop(ctx, func() string {
				return d.readFile(path, report)
			})

		case ModeInvalid:
			d.println(d.program() + ": invalid option")
			d.println(strutil.Concat([]string{"Type « sudo ./", d.program(), " -h » for more information"}))
			content = ""
		}
	}

	return d.show(content)
}

func (d *Dispatcher) show(content string) error {
	d.Screen.Clear()
	d.Screen.DrawString(0, 0, content)
	return d.Screen.Refresh()
}

// loop redraws the content every interval until ctx is done.
func (d *Dispatcher) loop(ctx context.Context, content func() string) error {
	interval := d.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for iteration := 1; ; iteration++ {
		if ctx.Err() != nil {
			return nil
		}
		text := content()
		if ctx.Err() != nil {
			return nil
		}
		if err := d.show(text); err != nil {
			return err
		}
		log.Debugf("cli: iteration %d drew %d bytes", iteration, len(text))

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// run returns the output of command, or nothing if it fails.
func (d *Dispatcher) run(ctx context.Context, command string, report *reporter) string {
	out, err := d.Runner.Run(ctx, command)
	if err != nil {
		if ctx.Err() == nil {
			report.error(err)
		}
		return ""
	}
	report.ok()
	return out
}

// readFile returns the content of the file at path, or nothing if it can't be read.
func (d *Dispatcher) readFile(path string, report *reporter) string {
	read := d.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	b, err := read(path)
	if err != nil {
		report.error(err)
		return ""
	}
	report.ok()
	return string(b)
}

func (d *Dispatcher) usage() {
	d.println("usage: " + d.program() + " [options] <text to display>")
	d.println("Available options:")
	d.println("\t-h: show this help on usage & options")
	d.println("\t-i: show IP address")
	d.println("\t-d: show datetime")
	d.println("\t-f <file_path>: show the content of the file")
}

func (d *Dispatcher) program() string {
	if d.Program == "" {
		return "pcd8544_cli"
	}
	return d.Program
}

func (d *Dispatcher) stdout() io.Writer {
	if d.Stdout == nil {
		return os.Stdout
	}
	return d.Stdout
}

func (d *Dispatcher) println(s string) {
	fmt.Fprintln(d.stdout(), s)
}

func (d *Dispatcher) reporter() *reporter {
	return &reporter{d: d}
}

// reporter prints an error once, until it changes or the source recovers.
type reporter struct {
	d    *Dispatcher
	last string
}

func (r *reporter) error(err error) {
	if msg := err.Error(); msg != r.last {
		r.d.println(r.d.program() + ": " + msg)
		r.last = msg
	}
}

func (r *reporter) ok() {
	r.last = ""
}
