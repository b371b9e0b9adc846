// hal.go
//
// reef-pi HAL glue for the LP5009/LP5012.
//
// This file provides:
//   - channel objects implementing hal.PWMChannel, one per physical output
//   - a driver implementing hal.PWMDriver
//
// Concurrency / atomicity:
//   - reef-pi can call pins concurrently, so every chip interaction goes
//     through the driver mutex (d.mu). The LP50XX core itself is
//     single-writer and must only be reached with the lock held.
//
package lp50xx

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/reef-pi/hal"
)

// lp50xxChannel is one output (0..8 or 0..11) exposed as a reef-pi PWM pin.
type lp50xxChannel struct {
	driver *lp50xxDriver
	output int
	last   bool
}

func (c *lp50xxChannel) Name() string { return fmt.Sprintf("%s:OUT%d", driverName, c.output) }
func (c *lp50xxChannel) Number() int  { return c.output }
func (c *lp50xxChannel) Close() error { return nil }

// Set takes the reef-pi 0..100 range and writes the scaled 8-bit color
// value to the output's register.
func (c *lp50xxChannel) Set(value float64) error {
	return c.driver.setOutput(c.output, value)
}

// Write drives the output as the on/off pin hal.PWMChannel embeds:
// true is full on (100%), false is off.
func (c *lp50xxChannel) Write(state bool) error {
	var value float64
	if state {
		value = 100
	}
	if err := c.driver.setOutput(c.output, value); err != nil {
		return err
	}
	c.last = state
	return nil
}

func (c *lp50xxChannel) LastState() bool { return c.last }

// lp50xxDriver is the reef-pi driver instance for one chip at one address.
type lp50xxDriver struct {
	hw *LP50XX

	// I2C address (for better logs)
	addr byte

	// Serialize ALL interactions with the chip.
	mu sync.Mutex

	// debug enables verbose log messages.
	debug bool

	// meta is provided by factory (so UI name/desc stays consistent).
	meta hal.Metadata

	channels []*lp50xxChannel
}

func (d *lp50xxDriver) Close() error { return d.hw.Close() }

func (d *lp50xxDriver) Metadata() hal.Metadata {
	if d.meta.Name != "" {
		return d.meta
	}
	// fallback
	return hal.Metadata{
		Name:         driverName,
		Description:  "TI LP5009/LP5012 I2C RGB LED driver",
		Capabilities: []hal.Capability{hal.PWM},
	}
}

// -----------------------------------------------------------------------------
// Required by hal.PWMDriver
// -----------------------------------------------------------------------------

func (d *lp50xxDriver) PWMChannels() []hal.PWMChannel {
	out := make([]hal.PWMChannel, len(d.channels))
	for i, c := range d.channels {
		out[i] = c
	}
	return out
}

func (d *lp50xxDriver) PWMChannel(n int) (hal.PWMChannel, error) {
	if n < 0 || n >= len(d.channels) {
		return nil, fmt.Errorf("lp50xx addr=0x%02X: invalid channel %d", d.addr, n)
	}
	return d.channels[n], nil
}

func (d *lp50xxDriver) Pins(cap hal.Capability) ([]hal.Pin, error) {
	switch cap {
	case hal.PWM:
		pins := make([]hal.Pin, len(d.channels))
		for i, c := range d.channels {
			pins[i] = c
		}
		return pins, nil
	default:
		return nil, fmt.Errorf("lp50xx addr=0x%02X: unsupported capability: %s", d.addr, cap.String())
	}
}

// -----------------------------------------------------------------------------
// Internal helpers
// -----------------------------------------------------------------------------

// setOutput maps reef-pi's 0..100 value onto the 0..255 color register.
func (d *lp50xxDriver) setOutput(output int, value float64) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("lp50xx addr=0x%02X: invalid pwm value %.2f (expected 0..100)", d.addr, value)
	}
	v := byte(math.Round(value * 255.0 / 100.0))

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.debug {
		log.Printf("lp50xx addr=0x%02X set out=%d value=%.2f%% => 0x%02X", d.addr, output, value, v)
	}
	return d.hw.SetOutputColor(output, v, Normal)
}
