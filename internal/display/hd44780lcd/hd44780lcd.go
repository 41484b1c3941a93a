// Package hd44780lcd drives the 16x2 HD44780 character panel over its
// 4-bit parallel interface using periph.io.
package hd44780lcd

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/hd44780"

	"github.com/crypticsy/VisionCaster/internal/config"
	"github.com/crypticsy/VisionCaster/internal/display"
)

// Display drives the panel. periph host.Init must have been called first.
type Display struct {
	dev     *hd44780.Dev
	columns int
	rows    int
}

// New resolves the configured pins and initializes the panel.
func New(cfg config.LCDConfig) (*Display, error) {
	rs, err := outPin(cfg.RS)
	if err != nil {
		return nil, err
	}
	en, err := outPin(cfg.EN)
	if err != nil {
		return nil, err
	}
	data := make([]gpio.PinOut, 0, 4)
	for _, name := range []string{cfg.D4, cfg.D5, cfg.D6, cfg.D7} {
		p, err := outPin(name)
		if err != nil {
			return nil, err
		}
		data = append(data, p)
	}

	dev, err := hd44780.New(data, rs, en)
	if err != nil {
		return nil, fmt.Errorf("initializing hd44780: %w", err)
	}
	return &Display{dev: dev, columns: cfg.Columns, rows: cfg.Rows}, nil
}

func outPin(name string) (gpio.PinOut, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such GPIO pin: %q", name)
	}
	return pin, nil
}

// Write clears the panel and renders text wrapped to its geometry.
func (d *Display) Write(text string) error {
	if err := d.dev.Halt(); err != nil {
		return fmt.Errorf("clearing lcd: %w", err)
	}
	for row, line := range display.Wrap(text, d.columns, d.rows) {
		if err := d.dev.SetCursor(uint8(row), 0); err != nil {
			return fmt.Errorf("moving cursor: %w", err)
		}
		if err := d.dev.Print(line); err != nil {
			return fmt.Errorf("writing lcd: %w", err)
		}
	}
	return nil
}

// Clear blanks the panel.
func (d *Display) Clear() error {
	return d.dev.Halt()
}

// Close clears and halts the panel.
func (d *Display) Close() error {
	_ = d.dev.Halt()
	return d.dev.Halt()
}
