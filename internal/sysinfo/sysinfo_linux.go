package sysinfo

import (
	"time"

	"golang.org/x/sys/unix"
)

// loadScale is the fixed point scale of the kernel load averages (1 << SI_LOAD_SHIFT).
const loadScale = 1 << 16

// Query the kernel with sysinfo(2).
func Query() (Info, error) {
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return Info{}, err
	}

	unit := uint64(si.Unit)
	if unit == 0 {
		unit = 1
	}
	info := Info{
		Uptime:   time.Duration(si.Uptime) * time.Second,
		TotalRAM: uint64(si.Totalram) * unit,
		FreeRAM:  uint64(si.Freeram) * unit,
		Procs:    int(si.Procs),
	}
	for i := range info.Loads {
		info.Loads[i] = float64(si.Loads[i]) / loadScale
	}
	return info, nil
}
