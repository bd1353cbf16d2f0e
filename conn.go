package pcd8544

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/pcd8544/conn"
)

// Conn errors.
var (
	ErrResetPin = errors.New("pcd8544: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("pcd8544: data/command (DC) GPIO pin is invalid")
	ErrSpeed    = errors.New("pcd8544: serial clock above 4MHz")
	ErrConfig   = errors.New("pcd8544: connection config is missing")
)

// MaxSpeed is the fastest serial clock the controller accepts.
const MaxSpeed = 4 * physic.MegaHertz

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends command bytes.
	Command(...byte) error

	// Data sends display RAM bytes.
	Data(...byte) error
}

// Bus is a write-only serial bus.
type Bus interface {
	io.WriteCloser
	String() string
}

// GPIOConfig describes a controller wired to plain GPIO lines, with the serial bus bit-banged.
type GPIOConfig struct {
	// SCLK is the serial clock line.
	SCLK gpio.PinOut

	// DIN is the serial data line.
	DIN gpio.PinOut

	// DC is the data/command line.
	DC gpio.PinOut

	// CE is the chip enable line (active low), optional.
	CE gpio.PinOut

	// Reset is the reset line (active low).
	Reset gpio.PinOut

	// Speed limits the serial clock, zero toggles as fast as possible.
	Speed physic.Frequency
}

// SPIConfig describes a controller on a hardware SPI port.
type SPIConfig struct {
	// Port is the periph.io SPI port name, "" for the first available port.
	Port string

	// Speed of the serial clock.
	Speed physic.Frequency

	// BatchSize is the largest single transfer.
	BatchSize uint

	// DC is the data/command line.
	DC gpio.PinOut

	// CE is the chip enable line, leave nil when the SPI port drives it.
	CE gpio.PinOut

	// Reset is the reset line (active low).
	Reset gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Speed:     MaxSpeed,
	BatchSize: 4096,
}

type serialConn struct {
	bus       Bus
	reset     gpio.PinOut
	dc        gpio.PinOut
	dcLevel   gpio.Level
	dcKnown   bool
	ce        gpio.PinOut
	batchSize uint
}

// OpenGPIO bit-bangs the serial protocol over GPIO lines.
func OpenGPIO(config *GPIOConfig) (Conn, error) {
	if config == nil {
		return nil, ErrConfig
	}
	if err := checkPins(config.Reset, config.DC); err != nil {
		return nil, err
	}
	if config.Speed > MaxSpeed {
		return nil, ErrSpeed
	}

	bus, err := conn.OpenBitBang(config.SCLK, config.DIN, config.Speed)
	if err != nil {
		return nil, err
	}

	c, err := newSerialConn(bus, config.Reset, config.DC, config.CE, 0)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// OpenSPI uses a hardware SPI port.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		return nil, ErrConfig
	}
	if err := checkPins(config.Reset, config.DC); err != nil {
		return nil, err
	}
	if config.Speed == 0 {
		config.Speed = DefaultSPIConfig.Speed
	}
	if config.Speed > MaxSpeed {
		return nil, ErrSpeed
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultSPIConfig.BatchSize
	}

	bus, err := conn.OpenSPI(config.Port, config.Speed)
	if err != nil {
		return nil, err
	}

	c, err := newSerialConn(bus, config.Reset, config.DC, config.CE, config.BatchSize)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func checkPins(reset, dc gpio.PinOut) error {
	if reset == nil || reset == gpio.INVALID {
		return ErrResetPin
	}
	if dc == nil || dc == gpio.INVALID {
		return ErrDCPin
	}
	return nil
}

func newSerialConn(bus Bus, reset, dc, ce gpio.PinOut, batchSize uint) (*serialConn, error) {
	c := &serialConn{
		bus:       bus,
		reset:     reset,
		dc:        dc,
		ce:        ce,
		batchSize: batchSize,
	}
	if err := c.updateCE(gpio.High); err != nil {
		_ = bus.Close()
		return nil, err
	}
	return c, nil
}

func (c *serialConn) String() string {
	return c.bus.String()
}

func (c *serialConn) Close() error {
	return c.bus.Close()
}

func (c *serialConn) Reset(level gpio.Level) error {
	return c.reset.Out(level)
}

func (c *serialConn) updateDC(level gpio.Level) error {
	if !c.dcKnown || c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel, c.dcKnown = level, true
	}
	return nil
}

func (c *serialConn) updateCE(level gpio.Level) error {
	if c.ce == nil || c.ce == gpio.INVALID {
		return nil
	}
	return c.ce.Out(level)
}

func (c *serialConn) Command(commands ...byte) error {
	log.Debugf("pcd8544: command % x", commands)
	return c.send(gpio.Low, commands)
}

func (c *serialConn) Data(data ...byte) error {
	return c.send(gpio.High, data)
}

func (c *serialConn) send(dc gpio.Level, data []byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(dc); err != nil {
		return
	}
	if err = c.updateCE(gpio.Low); err != nil {
		return
	}
	if err = c.writeChunked(data); err != nil {
		_ = c.updateCE(gpio.High)
		return fmt.Errorf("pcd8544: write to %s: %w", c.bus, err)
	}
	return c.updateCE(gpio.High)
}

func (c *serialConn) writeChunked(data []byte) (err error) {
	if c.batchSize == 0 || len(data) <= int(c.batchSize) {
		_, err = c.bus.Write(data)
		return
	}

	log.Debugf("pcd8544: write %d bytes of data in %d chunks", len(data), (len(data)+int(c.batchSize)-1)/int(c.batchSize))
	for buffer := data; len(buffer) > 0; {
		n := len(buffer)
		if n > int(c.batchSize) {
			n = int(c.batchSize)
		}
		if _, err = c.bus.Write(buffer[:n]); err != nil {
			return
		}
		buffer = buffer[n:]
	}
	return
}
