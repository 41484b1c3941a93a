package button

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIOLine is a Line backed by a periph.io GPIO pin.
type GPIOLine struct {
	pin gpio.PinIO
}

// OpenGPIO looks up the named pin and configures it as a pull-up input.
// periph host.Init must have been called first.
func OpenGPIO(name string) (*GPIOLine, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such GPIO pin: %q", name)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configuring %s as pull-up input: %w", name, err)
	}
	return &GPIOLine{pin: pin}, nil
}

// Read reports the current line level. High is idle, low is held.
func (l *GPIOLine) Read() bool {
	return l.pin.Read() == gpio.High
}

// Close releases the pin.
func (l *GPIOLine) Close() error {
	return l.pin.Halt()
}
