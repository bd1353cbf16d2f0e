//go:build !linux

package sysinfo

// Query is not supported on this platform.
func Query() (Info, error) {
	return Info{}, ErrNotSupported
}
