// Package sysinfo reports basic statistics about the host.
package sysinfo

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotSupported is returned on platforms without sysinfo(2).
var ErrNotSupported = errors.New("sysinfo: not supported")

// Info is a snapshot of the host state.
type Info struct {
	// Uptime since boot.
	Uptime time.Duration

	// Loads are the 1, 5 and 15 minute load averages.
	Loads [3]float64

	// TotalRAM and FreeRAM in bytes.
	TotalRAM uint64
	FreeRAM  uint64

	// Procs is the number of processes.
	Procs int
}

func (i Info) String() string {
	return fmt.Sprintf("up %s, load %.2f %.2f %.2f, %d procs, %d/%d MiB free",
		i.Uptime, i.Loads[0], i.Loads[1], i.Loads[2], i.Procs, i.FreeRAM>>20, i.TotalRAM>>20)
}
