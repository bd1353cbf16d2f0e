package cli

import "strings"

// Mode selects what the dispatcher shows.
type Mode uint8

// Modes, selected by the first character after a leading dash.
const (
	ModeLiteral  Mode = iota // not a flag, shown as text
	ModeHelp                 // -h
	ModeAddress              // -i
	ModeClock                // -d
	ModeFile                 // -f <path>
	ModeReserved             // -c
	ModeInvalid              // anything else
)

func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeHelp:
		return "help"
	case ModeAddress:
		return "address"
	case ModeClock:
		return "clock"
	case ModeFile:
		return "file"
	case ModeReserved:
		return "reserved"
	default:
		return "invalid"
	}
}

// Loops reports whether the mode keeps refreshing the display until cancelled.
func (m Mode) Loops() bool {
	return m == ModeClock || m == ModeFile
}

// ParseMode classifies an argument. Only the character following the dash is significant, so
// "-d" and "-date" are the same flag.
func ParseMode(arg string) Mode {
	if !strings.HasPrefix(arg, "-") {
		return ModeLiteral
	}
	if len(arg) < 2 {
		return ModeInvalid
	}
	switch arg[1] {
	case 'h':
		return ModeHelp
	case 'i':
		return ModeAddress
	case 'd':
		return ModeClock
	case 'f':
		return ModeFile
	case 'c':
		return ModeReserved
	default:
		return ModeInvalid
	}
}
