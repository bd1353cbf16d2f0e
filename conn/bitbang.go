package conn

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Errors
var (
	ErrClockPin = errors.New("conn: clock GPIO pin is invalid")
	ErrDataPin  = errors.New("conn: data GPIO pin is invalid")
)

// BitBang is a serial bus driven in software: every bit is put on the data line, most significant
// bit first, and latched with a rising edge on the clock line. The clock idles low (SPI mode 0).
type BitBang struct {
	clock gpio.PinOut
	data  gpio.PinOut
	half  time.Duration
}

// OpenBitBang claims the clock and data lines. A zero frequency clocks as fast as the GPIO driver
// can toggle the pins.
func OpenBitBang(clock, data gpio.PinOut, f physic.Frequency) (*BitBang, error) {
	if clock == nil || clock == gpio.INVALID {
		return nil, ErrClockPin
	}
	if data == nil || data == gpio.INVALID {
		return nil, ErrDataPin
	}

	b := &BitBang{
		clock: clock,
		data:  data,
	}
	if f > 0 {
		b.half = f.Period() / 2
	}

	if err := b.clock.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("conn: clock %s: %w", clock, err)
	}
	if err := b.data.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("conn: data %s: %w", data, err)
	}
	return b, nil
}

func (b *BitBang) String() string {
	return fmt.Sprintf("bit-banged serial clock=%s data=%s", b.clock, b.data)
}

// Close releases the clock and data lines.
func (b *BitBang) Close() error {
	return errors.Join(b.clock.Halt(), b.data.Halt())
}

func (b *BitBang) Write(p []byte) (n int, err error) {
	for _, v := range p {
		if err = b.writeByte(v); err != nil {
			return
		}
		n++
	}
	return
}

func (b *BitBang) writeByte(v byte) (err error) {
	for bit := 7; bit >= 0; bit-- {
		if err = b.data.Out(gpio.Level(v&(1<<uint(bit)) != 0)); err != nil {
			return
		}
		if err = b.clock.Out(gpio.High); err != nil {
			return
		}
		b.wait()
		if err = b.clock.Out(gpio.Low); err != nil {
			return
		}
		b.wait()
	}
	return
}

func (b *BitBang) wait() {
	if b.half > 0 {
		time.Sleep(b.half)
	}
}
