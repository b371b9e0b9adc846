// periph.go
//
// periph.io bus adapter.
//
// Lets the driver run under periph.io hosts: wraps a periph i2c.Bus in the
// reef-pi Bus interface the LP50XX core talks to. Register transactions map
// onto Tx with the register byte prefixed to the write slice.
//
package lp50xx

import (
	"github.com/reef-pi/rpi/i2c"
	conni2c "periph.io/x/conn/v3/i2c"
)

// PeriphBus adapts a periph.io I2C bus to i2c.Bus.
type PeriphBus struct {
	bus conni2c.Bus
}

var _ i2c.Bus = (*PeriphBus)(nil)

func NewPeriphBus(bus conni2c.Bus) *PeriphBus {
	return &PeriphBus{bus: bus}
}

// SetAddress is a no-op: every periph transaction carries its target
// address, so there is no bus-level default to select.
func (p *PeriphBus) SetAddress(addr byte) error { return nil }

func (p *PeriphBus) ReadBytes(addr byte, num int) ([]byte, error) {
	buff := make([]byte, num)
	if err := p.bus.Tx(uint16(addr), nil, buff); err != nil {
		return nil, err
	}
	return buff, nil
}

func (p *PeriphBus) WriteBytes(addr byte, value []byte) error {
	return p.bus.Tx(uint16(addr), value, nil)
}

func (p *PeriphBus) ReadFromReg(addr, reg byte, value []byte) error {
	return p.bus.Tx(uint16(addr), []byte{reg}, value)
}

func (p *PeriphBus) WriteToReg(addr, reg byte, value []byte) error {
	buff := make([]byte, 0, len(value)+1)
	buff = append(buff, reg)
	buff = append(buff, value...)
	return p.bus.Tx(uint16(addr), buff, nil)
}

// Close is a no-op; the periph host owns the bus lifetime.
func (p *PeriphBus) Close() error { return nil }
