// enable_rpio.go
//
// Raspberry Pi GPIO adapter for the chip's EN line.
//
// The LP50XX core only needs a hal.DigitalOutputPin for EN sequencing; this
// wraps one BCM GPIO through go-rpio so the factory (and direct users on a
// Pi) can hand it one. Hosts with other GPIO providers can pass any
// hal.DigitalOutputPin instead.
//
package lp50xx

import (
	"fmt"

	"github.com/reef-pi/hal"
	"github.com/stianeikeland/go-rpio/v4"
)

// RPiEnablePin drives the EN line through a BCM GPIO.
type RPiEnablePin struct {
	pin  rpio.Pin
	bcm  int
	last bool
}

var _ hal.DigitalOutputPin = (*RPiEnablePin)(nil)

// NewRPiEnablePin maps /dev/gpiomem (if not already mapped) and puts the
// GPIO in output mode. The line keeps its current level until Write.
func NewRPiEnablePin(bcm int) (*RPiEnablePin, error) {
	if bcm < 0 || bcm > 27 {
		return nil, fmt.Errorf("lp50xx: invalid BCM pin %d", bcm)
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("lp50xx: rpio open: %w", err)
	}
	p := rpio.Pin(bcm)
	p.Output()
	return &RPiEnablePin{pin: p, bcm: bcm}, nil
}

func (p *RPiEnablePin) Name() string { return fmt.Sprintf("GPIO%d", p.bcm) }
func (p *RPiEnablePin) Number() int  { return p.bcm }

// Close leaves the gpiomem mapping open; it is shared process-wide and
// other drivers may still be using it.
func (p *RPiEnablePin) Close() error { return nil }

func (p *RPiEnablePin) Write(state bool) error {
	if state {
		p.pin.High()
	} else {
		p.pin.Low()
	}
	p.last = state
	return nil
}

func (p *RPiEnablePin) LastState() bool { return p.last }
