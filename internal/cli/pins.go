package cli

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/BeatGlow/pcd8544"
)

// DefaultContrast is the panel contrast (Vop) set at startup.
const DefaultContrast = 45

// Pins names the GPIO lines the panel is wired to, as known to the periph.io registry.
type Pins struct {
	Clock      string // SCLK
	Data       string // DIN
	Mode       string // D/C
	ChipSelect string // CE
	Reset      string // RST
}

// DefaultPins is the Raspberry Pi wiring: wiringPi pins 0 to 4 for SCLK, DIN, D/C, CE and RST.
var DefaultPins = Pins{
	Clock:      "GPIO17",
	Data:       "GPIO18",
	Mode:       "GPIO27",
	ChipSelect: "GPIO22",
	Reset:      "GPIO23",
}

// GPIOConfig looks the pins up in the registry. The host drivers must be initialized first.
func (p Pins) GPIOConfig() (*pcd8544.GPIOConfig, error) {
	var (
		config = new(pcd8544.GPIOConfig)
		err    error
	)
	for _, pin := range []struct {
		name string
		out  *gpio.PinOut
	}{
		{p.Clock, &config.SCLK},
		{p.Data, &config.DIN},
		{p.Mode, &config.DC},
		{p.ChipSelect, &config.CE},
		{p.Reset, &config.Reset},
	} {
		if *pin.out, err = lookup(pin.name); err != nil {
			return nil, err
		}
	}
	return config, nil
}

func lookup(name string) (gpio.PinOut, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("cli: GPIO pin %q not found", name)
	}
	return pin, nil
}

// Open connects to the panel over bit-banged GPIO and initializes it with the given contrast.
func Open(pins Pins, contrast uint8) (pcd8544.Display, error) {
	config, err := pins.GPIOConfig()
	if err != nil {
		return nil, err
	}

	c, err := pcd8544.OpenGPIO(config)
	if err != nil {
		return nil, err
	}

	d, err := pcd8544.PCD8544(c, &pcd8544.Config{Contrast: contrast})
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return d, nil
}
