// Package conn implements the write-only serial buses used to talk to display controllers.
//
// A [BitBang] bus clocks bytes out over plain GPIO lines, an [SPI] bus uses a hardware SPI port.
// Both only move bytes; selecting the controller and the data/command line is up to the caller.
package conn
