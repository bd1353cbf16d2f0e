package pcd8544

import (
	"bytes"
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/BeatGlow/pcd8544/draw"
	"github.com/BeatGlow/pcd8544/font"
	"github.com/BeatGlow/pcd8544/pixel"
)

func init() {
	resetPulse = 0
}

type op struct {
	command bool
	bytes   []byte
}

type recordConn struct {
	ops    []op
	resets []gpio.Level
	closed bool
	err    error
}

func (c *recordConn) String() string { return "recorder" }

func (c *recordConn) Close() error {
	c.closed = true
	return nil
}

func (c *recordConn) Reset(l gpio.Level) error {
	c.resets = append(c.resets, l)
	return nil
}

func (c *recordConn) Command(b ...byte) error {
	if c.err != nil {
		return c.err
	}
	c.ops = append(c.ops, op{true, append([]byte(nil), b...)})
	return nil
}

func (c *recordConn) Data(b ...byte) error {
	if c.err != nil {
		return c.err
	}
	c.ops = append(c.ops, op{false, append([]byte(nil), b...)})
	return nil
}

// banks returns the bank numbers that were addressed for a data write.
func (c *recordConn) banks() (banks []int) {
	for i, o := range c.ops {
		if o.command && len(o.bytes) == 2 && o.bytes[0]&0xf8 == pcd8544SetYAddr && i+1 < len(c.ops) && !c.ops[i+1].command {
			banks = append(banks, int(o.bytes[0]&0x07))
		}
	}
	return
}

func (c *recordConn) reset() {
	c.ops = nil
}

func newTestDisplay(t *testing.T, config *Config) (*pcd8544, *recordConn) {
	t.Helper()
	c := new(recordConn)
	d, err := PCD8544(c, config)
	if err != nil {
		t.Fatal(err)
	}
	return d.(*pcd8544), c
}

func TestPCD8544Init(t *testing.T) {
	d, c := newTestDisplay(t, &Config{Contrast: 45})

	if v := d.String(); v != "PCD8544 LCD 84x48" {
		t.Errorf("expected PCD8544 LCD 84x48, got %q", v)
	}
	if len(c.resets) != 2 || c.resets[0] != gpio.Low || c.resets[1] != gpio.High {
		t.Errorf("expected reset pulse low then high, got %v", c.resets)
	}
	if len(c.ops) == 0 || !c.ops[0].command {
		t.Fatal("expected init commands")
	}
	if want := []byte{0x21, 0x04, 0x14, 0xad, 0x20}; !bytes.Equal(c.ops[0].bytes, want) {
		t.Errorf("expected init sequence % x, got % x", want, c.ops[0].bytes)
	}
	if v := c.banks(); len(v) != 6 {
		t.Errorf("expected initial refresh of all 6 banks, got %v", v)
	}
	last := c.ops[len(c.ops)-1]
	if !last.command || !bytes.Equal(last.bytes, []byte{0x0c}) {
		t.Errorf("expected display normal command last, got % x", last.bytes)
	}
}

func TestPCD8544Config(t *testing.T) {
	tests := []struct {
		Name   string
		Config *Config
		Init   []byte
		Fails  bool
	}{
		{"nil", nil, []byte{0x21, 0x04, 0x14, 0xad, 0x20}, false},
		{"contrast clamped", &Config{Contrast: 0xff}, []byte{0x21, 0x04, 0x14, 0xff, 0x20}, false},
		{"bias and tc", &Config{Bias: 3, TemperatureCoefficient: 2}, []byte{0x21, 0x06, 0x13, 0xad, 0x20}, false},
		{"bad size", &Config{Width: 128, Height: 64}, nil, true},
		{"bad bias", &Config{Bias: 8}, nil, true},
		{"bad tc", &Config{TemperatureCoefficient: 4}, nil, true},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			c := new(recordConn)
			_, err := PCD8544(c, test.Config)
			if test.Fails {
				if err == nil {
					it.Error("expected error")
				}
				return
			}
			if err != nil {
				it.Fatal(err)
			}
			if !bytes.Equal(c.ops[0].bytes, test.Init) {
				it.Errorf("expected init sequence % x, got % x", test.Init, c.ops[0].bytes)
			}
		})
	}
}

func TestPCD8544Refresh(t *testing.T) {
	d, c := newTestDisplay(t, nil)
	c.reset()

	// Nothing changed.
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if len(c.ops) != 0 {
		t.Errorf("expected no transfers for an unchanged buffer, got %d", len(c.ops))
	}

	d.Set(10, 20, pixel.On) // bank 2
	d.Set(83, 47, pixel.On) // bank 5
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if v := c.banks(); len(v) != 2 || v[0] != 2 || v[1] != 5 {
		t.Fatalf("expected banks 2 and 5 to be refreshed, got %v", v)
	}
	if want := []byte{0x42, 0x80}; !bytes.Equal(c.ops[0].bytes, want) {
		t.Errorf("expected bank address % x, got % x", want, c.ops[0].bytes)
	}
	data := c.ops[1].bytes
	if len(data) != 84 || data[10] != 0x10 {
		t.Errorf("expected 84 bytes with bit 4 set in column 10, got % x", data)
	}

	c.reset()
	d.Clear()
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if v := c.banks(); len(v) != 2 {
		t.Errorf("expected cleared banks 2 and 5 to be refreshed, got %v", v)
	}
}

func TestPCD8544RefreshError(t *testing.T) {
	d, c := newTestDisplay(t, nil)
	d.DrawString(0, 0, "hello")

	c.err = errors.New("bus fault")
	if err := d.Refresh(); !errors.Is(err, c.err) {
		t.Fatalf("expected bus fault, got %v", err)
	}

	c.err = nil
	c.reset()
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if v := c.banks(); len(v) != 1 || v[0] != 0 {
		t.Errorf("expected bank 0 to be sent after the failed refresh, got %v", v)
	}
}

func TestPCD8544DrawString(t *testing.T) {
	d, _ := newTestDisplay(t, nil)
	d.DrawString(1, 0, "I")
	for y := 8; y < 15; y++ {
		if d.At(2, y) != pixel.On {
			t.Errorf("expected pixel (2,%d) to be set", y)
		}
	}
	if d.At(2, 0) != pixel.Off {
		t.Error("expected row 0 to be blank")
	}
}

func TestPCD8544TrueTypeFace(t *testing.T) {
	face, err := font.GoMono(12)
	if err != nil {
		t.Fatal(err)
	}
	d, c := newTestDisplay(t, &Config{Face: face})

	columns, rows := d.TextGrid()
	if columns <= 0 || columns >= 14 || rows <= 0 || rows >= 6 {
		t.Errorf("expected a coarser grid than 14x6 for Go Mono 12pt, got %dx%d", columns, rows)
	}

	c.reset()
	d.DrawString(0, 0, "I")
	var (
		cell = draw.CellSize(face)
		lit  int
	)
	for y := 0; y < 48; y++ {
		for x := 0; x < 84; x++ {
			if d.At(x, y) != pixel.On {
				continue
			}
			lit++
			if x >= cell.X || y >= cell.Y {
				t.Errorf("pixel (%d,%d) outside the first %s cell", x, y, cell)
			}
		}
	}
	if lit == 0 {
		t.Fatal("expected the glyph to be drawn")
	}

	if err = d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if banks := c.banks(); len(banks) == 0 || banks[0] != 0 {
		t.Errorf("expected bank 0 to be sent, got %v", banks)
	}
}

func TestPCD8544TextGrid(t *testing.T) {
	d, _ := newTestDisplay(t, nil)
	if columns, rows := d.TextGrid(); columns != 14 || rows != 6 {
		t.Errorf("expected 14x6 cells, got %dx%d", columns, rows)
	}
}

func TestPCD8544ZeroContrast(t *testing.T) {
	d, c := newTestDisplay(t, &Config{})
	if v := c.ops[0].bytes[3]; v != 0x80|45 {
		t.Errorf("expected zero contrast to take the default, got %#02x", v)
	}

	c.reset()
	if err := d.SetContrast(0); err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x21, 0x80, 0x20}; !bytes.Equal(c.ops[0].bytes, want) {
		t.Errorf("expected % x, got % x", want, c.ops[0].bytes)
	}
}

func TestPCD8544ShowInvert(t *testing.T) {
	d, c := newTestDisplay(t, nil)
	c.reset()

	steps := []struct {
		Name string
		Do   func() error
		Want []byte
	}{
		{"invert", func() error { return d.Invert(true) }, []byte{0x0d}},
		{"blank", func() error { return d.Show(false) }, []byte{0x08}},
		{"normal", func() error { return d.Invert(false) }, nil},
		{"show", func() error { return d.Show(true) }, []byte{0x0c}},
		{"contrast", func() error { return d.SetContrast(60) }, []byte{0x21, 0xbc, 0x20}},
	}
	for _, step := range steps {
		c.reset()
		if err := step.Do(); err != nil {
			t.Fatalf("%s: %v", step.Name, err)
		}
		if step.Want == nil {
			if len(c.ops) != 0 {
				t.Errorf("%s: expected no commands while blank, got % x", step.Name, c.ops[0].bytes)
			}
			continue
		}
		if len(c.ops) != 1 || !bytes.Equal(c.ops[0].bytes, step.Want) {
			t.Errorf("%s: expected command % x, got %v", step.Name, step.Want, c.ops)
		}
	}
}

func TestPCD8544Close(t *testing.T) {
	d, c := newTestDisplay(t, nil)
	c.reset()

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if len(c.ops) != 2 || !bytes.Equal(c.ops[0].bytes, []byte{0x08}) || !bytes.Equal(c.ops[1].bytes, []byte{0x24}) {
		t.Errorf("expected blank and power down, got %v", c.ops)
	}
	if !c.closed {
		t.Error("expected connection to be closed")
	}
	if err := d.Close(); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}
	if err := d.Refresh(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

// levelPin records every level driven on it.
type levelPin struct {
	*gpiotest.Pin
	levels []gpio.Level
}

func newLevelPin(name string) *levelPin {
	return &levelPin{Pin: &gpiotest.Pin{N: name}}
}

func (p *levelPin) Out(l gpio.Level) error {
	p.levels = append(p.levels, l)
	return p.Pin.Out(l)
}

func TestOpenGPIO(t *testing.T) {
	var (
		sclk  = newLevelPin("GPIO17")
		din   = newLevelPin("GPIO18")
		dc    = newLevelPin("GPIO27")
		ce    = newLevelPin("GPIO22")
		reset = newLevelPin("GPIO23")
	)
	c, err := OpenGPIO(&GPIOConfig{SCLK: sclk, DIN: din, DC: dc, CE: ce, Reset: reset})
	if err != nil {
		t.Fatal(err)
	}
	if v := ce.Read(); v != gpio.High {
		t.Errorf("expected chip enable to be released after open")
	}

	if err = c.Command(0x21, 0x20); err != nil {
		t.Fatal(err)
	}
	if v := dc.Read(); v != gpio.Low {
		t.Error("expected D/C low for commands")
	}
	if err = c.Data(0xff); err != nil {
		t.Fatal(err)
	}
	if v := dc.Read(); v != gpio.High {
		t.Error("expected D/C high for data")
	}
	if want := []gpio.Level{gpio.High, gpio.Low, gpio.High, gpio.Low, gpio.High}; len(ce.levels) != len(want) {
		t.Errorf("expected chip enable sequence %v, got %v", want, ce.levels)
	}
	if v := len(sclk.levels); v != 1+2*8*3 {
		t.Errorf("expected %d clock transitions, got %d", 1+2*8*3, v)
	}

	if err = c.Reset(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if v := reset.Read(); v != gpio.Low {
		t.Error("expected reset low")
	}
	if err = c.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenGPIOInvalid(t *testing.T) {
	pin := newLevelPin("GPIO0")
	tests := []struct {
		Name   string
		Config *GPIOConfig
		Want   error
	}{
		{"nil", nil, ErrConfig},
		{"no reset", &GPIOConfig{SCLK: pin, DIN: pin, DC: pin}, ErrResetPin},
		{"no dc", &GPIOConfig{SCLK: pin, DIN: pin, DC: gpio.INVALID, Reset: pin}, ErrDCPin},
		{"too fast", &GPIOConfig{SCLK: pin, DIN: pin, DC: pin, Reset: pin, Speed: 2 * MaxSpeed}, ErrSpeed},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if _, err := OpenGPIO(test.Config); !errors.Is(err, test.Want) {
				it.Errorf("expected %v, got %v", test.Want, err)
			}
		})
	}
}

func TestOpenSPIInvalid(t *testing.T) {
	pin := newLevelPin("GPIO24")
	tests := []struct {
		Name   string
		Config *SPIConfig
		Want   error
	}{
		{"nil", nil, ErrConfig},
		{"no reset", &SPIConfig{DC: pin}, ErrResetPin},
		{"no dc", &SPIConfig{Reset: pin}, ErrDCPin},
		{"too fast", &SPIConfig{DC: pin, Reset: pin, Speed: 2 * MaxSpeed}, ErrSpeed},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			if _, err := OpenSPI(test.Config); !errors.Is(err, test.Want) {
				it.Errorf("expected %v, got %v", test.Want, err)
			}
		})
	}
}

// writeRecorder is a Bus that records every write.
type writeRecorder struct {
	writes [][]byte
	closed bool
}

func (w *writeRecorder) String() string { return "recorder bus" }

func (w *writeRecorder) Write(p []byte) (int, error) {
	w.writes = append(w.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (w *writeRecorder) Close() error {
	w.closed = true
	return nil
}

func TestSerialConnChunked(t *testing.T) {
	var (
		bus = new(writeRecorder)
		dc  = newLevelPin("DC")
		rst = newLevelPin("RST")
	)
	c, err := newSerialConn(bus, rst, dc, nil, 200)
	if err != nil {
		t.Fatal(err)
	}

	data := make([]byte, 504)
	for i := range data {
		data[i] = byte(i)
	}
	if err = c.Data(data...); err != nil {
		t.Fatal(err)
	}
	if len(bus.writes) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(bus.writes))
	}
	for i, n := range []int{200, 200, 104} {
		if v := len(bus.writes[i]); v != n {
			t.Errorf("expected chunk %d to be %d bytes, got %d", i, n, v)
		}
	}
	if !bytes.Equal(bytes.Join(bus.writes, nil), data) {
		t.Error("expected chunks to add up to the data")
	}

	if err = c.Data(); err != nil || len(bus.writes) != 3 {
		t.Errorf("expected empty data to be a no-op, got %v", err)
	}
	if v := len(dc.levels); v != 1 {
		t.Errorf("expected D/C to be driven once, got %d", v)
	}
	if err = c.Close(); err != nil || !bus.closed {
		t.Errorf("expected bus to be closed, got %v", err)
	}
}
