package pcd8544

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/pcd8544/draw"
	"github.com/BeatGlow/pcd8544/font"
	"github.com/BeatGlow/pcd8544/pixel"
)

const (
	pcd8544Width                     = 84
	pcd8544Height                    = 48
	pcd8544MaxContrast               = 0x7f
	pcd8544MaxBias                   = 0x07
	pcd8544MaxTemperatureCoefficient = 0x03

	// Function set, available in both instruction sets.
	pcd8544FunctionSet         = 0x20
	pcd8544PowerDown           = 0x04
	pcd8544VerticalAddressing  = 0x02
	pcd8544ExtendedInstruction = 0x01

	// Basic instruction set (H=0).
	pcd8544DisplayControl  = 0x08
	pcd8544DisplayBlank    = 0x00
	pcd8544DisplayAllOn    = 0x01
	pcd8544DisplayNormal   = 0x04
	pcd8544DisplayInverted = 0x05
	pcd8544SetYAddr        = 0x40
	pcd8544SetXAddr        = 0x80

	// Extended instruction set (H=1).
	pcd8544SetTemperature = 0x04
	pcd8544SetBias        = 0x10
	pcd8544SetVop         = 0x80
)

// resetPulse is how long the reset line is held low during init.
var resetPulse = 100 * time.Millisecond

type pcd8544 struct {
	c        Conn
	buf      *pixel.MonoVerticalLSBImage
	sent     []byte
	synced   bool
	face     font.Face
	columns  int
	rows     int
	bias     byte
	tc       byte
	shown    bool
	inverted bool
	closed   bool
}

// PCD8544 is a driver for the Philips PCD8544 48x84 LCD controller.
//
// The controller is reset and initialized with the config values, the display buffer is cleared
// and sent to the panel before the display is switched on.
func PCD8544(conn Conn, config *Config) (Display, error) {
	if config == nil {
		config = new(Config)
		*config = DefaultConfig
	}
	if config.Width == 0 {
		config.Width = DefaultConfig.Width
	}
	if config.Height == 0 {
		config.Height = DefaultConfig.Height
	}
	if config.Contrast == 0 {
		config.Contrast = DefaultConfig.Contrast
	}
	if config.Bias == 0 {
		config.Bias = DefaultConfig.Bias
	}
	if config.Face == nil {
		config.Face = DefaultConfig.Face
	}

	d := &pcd8544{
		c: conn,
	}
	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *pcd8544) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("PCD8544 LCD %dx%d", bounds.Dx(), bounds.Dy())
}

func (d *pcd8544) init(config *Config) (err error) {
	if config.Width != pcd8544Width || config.Height != pcd8544Height {
		return fmt.Errorf("pcd8544: unsupported size %dx%d", config.Width, config.Height)
	}
	if config.Bias > pcd8544MaxBias {
		return fmt.Errorf("pcd8544: bias %d out of range 0-%d", config.Bias, pcd8544MaxBias)
	}
	if config.TemperatureCoefficient > pcd8544MaxTemperatureCoefficient {
		return fmt.Errorf("pcd8544: temperature coefficient %d out of range 0-%d", config.TemperatureCoefficient, pcd8544MaxTemperatureCoefficient)
	}

	d.buf = pixel.NewMonoVerticalLSBImage(config.Width, config.Height)
	d.sent = make([]byte, len(d.buf.Pix))
	d.face = config.Face
	d.columns, d.rows = draw.Grid(d.buf.Bounds(), draw.CellSize(d.face))
	log.WithFields(log.Fields{"columns": d.columns, "rows": d.rows}).Debug("pcd8544: text grid")
	d.bias = config.Bias
	d.tc = config.TemperatureCoefficient
	d.inverted = config.Inverted

	// reset
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	time.Sleep(resetPulse)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}

	// init display
	if err = d.c.Command(
		pcd8544FunctionSet|pcd8544ExtendedInstruction,
		pcd8544SetTemperature|d.tc,
		pcd8544SetBias|d.bias,
		pcd8544SetVop|clampContrast(config.Contrast),
		pcd8544FunctionSet,
	); err != nil {
		return
	}

	if err = d.Refresh(); err != nil {
		return
	}
	if err = d.Show(true); err != nil {
		return
	}

	log.Debugf("pcd8544: initialized %s on %s", d, d.c)
	return
}

func clampContrast(level uint8) byte {
	if level > pcd8544MaxContrast {
		return pcd8544MaxContrast
	}
	return level
}

func (d *pcd8544) Clear() {
	d.buf.Clear()
}

func (d *pcd8544) At(x, y int) color.Color {
	return d.buf.At(x, y)
}

func (d *pcd8544) Set(x, y int, c color.Color) {
	d.buf.Set(x, y, c)
}

func (d *pcd8544) Bounds() image.Rectangle {
	return d.buf.Bounds()
}

func (d *pcd8544) ColorModel() color.Model {
	return d.buf.ColorModel()
}

func (d *pcd8544) DrawString(row, column int, text string) {
	draw.String(d.buf, d.face, row, column, text, pixel.On)
}

func (d *pcd8544) TextGrid() (columns, rows int) {
	return d.columns, d.rows
}

func (d *pcd8544) Show(show bool) error {
	if d.closed {
		return ErrClosed
	}
	mode := byte(pcd8544DisplayBlank)
	if show {
		mode = pcd8544DisplayNormal
		if d.inverted {
			mode = pcd8544DisplayInverted
		}
	}
	if err := d.c.Command(pcd8544DisplayControl | mode); err != nil {
		return err
	}
	d.shown = show
	return nil
}

func (d *pcd8544) Invert(invert bool) error {
	if d.closed {
		return ErrClosed
	}
	d.inverted = invert
	if !d.shown {
		return nil
	}
	return d.Show(true)
}

func (d *pcd8544) SetContrast(level uint8) error {
	if d.closed {
		return ErrClosed
	}
	return d.c.Command(
		pcd8544FunctionSet|pcd8544ExtendedInstruction,
		pcd8544SetVop|clampContrast(level),
		pcd8544FunctionSet,
	)
}

// Refresh sends the banks that changed since the last refresh.
func (d *pcd8544) Refresh() error {
	if d.closed {
		return ErrClosed
	}
	for bank := 0; bank < d.buf.Bands(); bank++ {
		var (
			pix  = d.buf.Band(bank)
			off  = bank * d.buf.Stride
			sent = d.sent[off : off+d.buf.Stride]
		)
		if d.synced && bytes.Equal(pix, sent) {
			continue
		}
		if err := d.c.Command(pcd8544SetYAddr|byte(bank), pcd8544SetXAddr); err != nil {
			return err
		}
		if err := d.c.Data(pix...); err != nil {
			return err
		}
		copy(sent, pix)
		log.Debugf("pcd8544: refreshed bank %d", bank)
	}
	d.synced = true
	return nil
}

// Close blanks the display, puts the controller in power-down mode and closes the connection.
func (d *pcd8544) Close() error {
	if d.closed {
		return nil
	}
	err := d.Show(false)
	if err == nil {
		err = d.c.Command(pcd8544FunctionSet | pcd8544PowerDown)
	}
	d.closed = true
	if cerr := d.c.Close(); err == nil {
		err = cerr
	}
	return err
}
