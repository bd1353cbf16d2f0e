package conn

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// SPI is a hardware SPI bus in mode 0 with 8 bits per word.
type SPI struct {
	port spi.Port
	conn spi.Conn
}

// OpenSPI opens the SPI port by name from the periph.io registry, use "" for the first available
// port. The device often corresponds to the chip enable pin, such as "SPI0.0".
func OpenSPI(name string, f physic.Frequency) (*SPI, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, err
	}

	c, err := NewSPI(p, f)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return c, nil
}

// NewSPI connects to an already opened port.
func NewSPI(port spi.Port, f physic.Frequency) (*SPI, error) {
	c, err := port.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("conn: SPI connect at %s: %w", f, err)
	}
	return &SPI{
		port: port,
		conn: c,
	}, nil
}

func (c *SPI) String() string {
	return fmt.Sprintf("SPI bus %s", c.port)
}

// Close the port, if it can be closed.
func (c *SPI) Close() error {
	if closer, ok := c.port.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *SPI) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return
	}
	if err = c.conn.Tx(p, nil); err != nil {
		return
	}
	return len(p), nil
}
