// lp50xx.go
//
// Low-level LP5009/LP5012 I2C access.
//
// The LP50XX type talks straight to the chip: begin/reset sequencing,
// DEVICE_CONFIG1 bit twiddling, bank control and per-output color writes.
// It does no locking; callers must not run two operations concurrently
// (a read-modify-write on DEVICE_CONFIG1 would interleave). The reef-pi
// glue in hal.go serializes its calls with a mutex for exactly that reason.
//
package lp50xx

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/reef-pi/hal"
	"github.com/reef-pi/rpi/i2c"
)

// ErrInvalidChannel is wrapped by errors returned for LED or output indexes
// outside the configured part's range.
var ErrInvalidChannel = errors.New("lp50xx: invalid channel")

// The chip needs 500us after EN rises before it accepts I2C traffic, and
// the EN line must be held low for a while to guarantee a power-on reset.
const (
	enableSettle = 500 * time.Microsecond
	resetHold    = 10 * time.Millisecond
)

// Config carries the wiring-dependent settings of one chip.
// The zero value means: RGB order, no enable line, LP5012 (12 outputs),
// factory broadcast address, no debug logging.
type Config struct {
	// Order is how the RGB LEDs are wired to the output triplets.
	Order ColorOrder

	// EnablePin drives the chip's EN line. Leave nil when EN is strapped
	// high in hardware; Begin and Reset then skip the pin sequencing.
	EnablePin hal.DigitalOutputPin

	// Outputs is 9 (LP5009) or 12 (LP5012). 0 defaults to 12.
	Outputs int

	// Broadcast overrides the factory broadcast address. 0 keeps 0x0C.
	Broadcast byte

	// Debug logs every bus transaction.
	Debug bool
}

// LP50XX drives one LP5009 or LP5012 on an I2C bus.
type LP50XX struct {
	bus       i2c.Bus
	addr      byte
	broadcast byte
	enable    hal.DigitalOutputPin
	order     ColorOrder
	outputs   int
	debug     bool
}

// New wires up a chip handle on an already-open bus. No I2C traffic happens
// until Begin.
func New(bus i2c.Bus, cfg Config) (*LP50XX, error) {
	switch cfg.Outputs {
	case 0:
		cfg.Outputs = LP5012Outputs
	case LP5009Outputs, LP5012Outputs:
	default:
		return nil, fmt.Errorf("lp50xx: invalid output count %d (want %d or %d)", cfg.Outputs, LP5009Outputs, LP5012Outputs)
	}
	if int(cfg.Order) >= len(orderOffsets) {
		return nil, fmt.Errorf("lp50xx: unknown color order %d", cfg.Order)
	}
	if cfg.Broadcast == 0 {
		cfg.Broadcast = BroadcastAddress
	}
	return &LP50XX{
		bus:       bus,
		addr:      DefaultAddress,
		broadcast: cfg.Broadcast,
		enable:    cfg.EnablePin,
		order:     cfg.Order,
		outputs:   cfg.Outputs,
		debug:     cfg.Debug,
	}, nil
}

// Begin brings the chip out of standby: raise EN (when wired), wait for the
// chip to accept I2C, then set Chip_EN. addr 0 selects DefaultAddress.
func (d *LP50XX) Begin(addr byte) error {
	if addr == 0 {
		addr = DefaultAddress
	}
	d.addr = addr

	if d.enable != nil {
		if err := d.enable.Write(true); err != nil {
			return fmt.Errorf("lp50xx addr=0x%02X: enable pin high: %w", d.addr, err)
		}
	}
	time.Sleep(enableSettle)

	if err := d.writeReg(d.addr, RegDeviceConfig0, chipEnable); err != nil {
		return err
	}
	d.dbg("begin addr=0x%02X order=%s outputs=%d", d.addr, d.order, d.outputs)
	return nil
}

// Reset power-cycles the chip through the EN line (when wired), resets all
// registers and re-enables the chip.
func (d *LP50XX) Reset() error {
	if d.enable != nil {
		if err := d.enable.Write(false); err != nil {
			return fmt.Errorf("lp50xx addr=0x%02X: enable pin low: %w", d.addr, err)
		}
		time.Sleep(resetHold)
		if err := d.enable.Write(true); err != nil {
			return fmt.Errorf("lp50xx addr=0x%02X: enable pin high: %w", d.addr, err)
		}
		time.Sleep(enableSettle)
	}

	if err := d.ResetRegisters(Normal); err != nil {
		return err
	}
	return d.writeReg(d.addr, RegDeviceConfig0, chipEnable)
}

// ResetRegisters restores every register to its default value. The chip
// drops Chip_EN too; call Begin or Reset to light it up again.
func (d *LP50XX) ResetRegisters(at AddressType) error {
	return d.writeReg(d.address(at), RegResetRegisters, 0xFF)
}

// Configure writes DEVICE_CONFIG1 in one transaction, e.g.
// Configure(LEDGlobalOn|MaxCurrent25mA|PWMDitheringOn|AutoIncOn|PowerSaveOn|LogScaleOn, Normal).
// Unlike the Set* methods it does not read back the current value first.
func (d *LP50XX) Configure(flags ConfigFlags, at AddressType) error {
	return d.writeReg(d.address(at), RegDeviceConfig1, byte(flags)&configMask)
}

// SetScaling selects logarithmic (true) or linear (false) PWM scaling.
func (d *LP50XX) SetScaling(logarithmic bool) error {
	return d.setConfigBit(byte(LogScaleOn), logarithmic)
}

// SetPowerSaving enables automatic power saving when all outputs are off.
func (d *LP50XX) SetPowerSaving(on bool) error {
	return d.setConfigBit(byte(PowerSaveOn), on)
}

// SetAutoIncrement enables register-address auto increment, required for
// the 3-byte bursts of SetBankColor and SetLEDColor.
func (d *LP50XX) SetAutoIncrement(on bool) error {
	return d.setConfigBit(byte(AutoIncOn), on)
}

// SetPWMDithering enables 12-bit dithered PWM generation.
func (d *LP50XX) SetPWMDithering(on bool) error {
	return d.setConfigBit(byte(PWMDitheringOn), on)
}

// SetMaxCurrentOption selects the 35mA output current option (true) over
// the default 25.5mA (false).
func (d *LP50XX) SetMaxCurrentOption(max35mA bool) error {
	return d.setConfigBit(byte(MaxCurrent35mA), max35mA)
}

// SetGlobalLedOff blanks every output (true) without touching their color
// or brightness registers, or unblanks them (false).
func (d *LP50XX) SetGlobalLedOff(off bool) error {
	return d.setConfigBit(byte(LEDGlobalOff), off)
}

// SetEnablePin swaps the EN line driver used by Begin and Reset. nil
// disables EN sequencing.
func (d *LP50XX) SetEnablePin(pin hal.DigitalOutputPin) {
	d.enable = pin
}

// SetColorOrder changes the wiring order used by SetBankColor and
// SetLEDColor.
func (d *LP50XX) SetColorOrder(order ColorOrder) error {
	if int(order) >= len(orderOffsets) {
		return fmt.Errorf("lp50xx: unknown color order %d", order)
	}
	d.order = order
	return nil
}

// SetAddress changes the stored primary address without touching the chip.
// Begin sets this too; SetAddress is for chips already up on a non-default
// strapping.
func (d *LP50XX) SetAddress(addr byte) {
	d.addr = addr
}

// SetBroadcastAddress changes the stored broadcast address.
func (d *LP50XX) SetBroadcastAddress(addr byte) {
	d.broadcast = addr
}

// SetBankControl sets the bank LED-select mask, e.g.
// SetBankControl(LED0|LED1|LED2|LED3, Normal). Selected LEDs follow the
// bank registers instead of their own.
func (d *LP50XX) SetBankControl(leds byte, at AddressType) error {
	return d.writeReg(d.address(at), RegLEDConfig0, leds)
}

// SetBankBrightness sets the brightness of all bank-controlled LEDs.
func (d *LP50XX) SetBankBrightness(brightness byte, at AddressType) error {
	return d.writeReg(d.address(at), RegBankBrightness, brightness)
}

// SetBankColorA sets bank color A (outputs 0, 3, 6, 9).
func (d *LP50XX) SetBankColorA(value byte, at AddressType) error {
	return d.writeReg(d.address(at), RegBankAColor, value)
}

// SetBankColorB sets bank color B (outputs 1, 4, 7, 10).
func (d *LP50XX) SetBankColorB(value byte, at AddressType) error {
	return d.writeReg(d.address(at), RegBankBColor, value)
}

// SetBankColorC sets bank color C (outputs 2, 5, 8, 11).
func (d *LP50XX) SetBankColorC(value byte, at AddressType) error {
	return d.writeReg(d.address(at), RegBankCColor, value)
}

// SetBankColor writes all three bank colors in one burst, remapped through
// the configured color order. Auto increment is forced on first; the burst
// would otherwise hammer BANK_A_COLOR three times.
func (d *LP50XX) SetBankColor(r, g, b byte, at AddressType) error {
	if err := d.SetAutoIncrement(true); err != nil {
		return err
	}
	buff := d.order.permute(r, g, b)
	return d.writeBurst(d.address(at), RegBankAColor, buff[:])
}

// SetLEDBrightness sets the brightness register of one LED (one output
// triplet).
func (d *LP50XX) SetLEDBrightness(led int, brightness byte, at AddressType) error {
	if err := d.checkLED(led); err != nil {
		return err
	}
	return d.writeReg(d.address(at), RegLED0Brightness+byte(led), brightness)
}

// SetOutputColor sets the color register of a single output.
func (d *LP50XX) SetOutputColor(output int, value byte, at AddressType) error {
	if err := d.checkOutput(output); err != nil {
		return err
	}
	return d.writeReg(d.address(at), RegOut0Color+byte(output), value)
}

// SetLEDColor writes the three output colors of one LED in one burst,
// remapped through the configured color order. Auto increment is forced on
// first, as in SetBankColor.
func (d *LP50XX) SetLEDColor(led int, r, g, b byte, at AddressType) error {
	if err := d.checkLED(led); err != nil {
		return err
	}
	if err := d.SetAutoIncrement(true); err != nil {
		return err
	}
	buff := d.order.permute(r, g, b)
	return d.writeBurst(d.address(at), RegOut0Color+byte(led*3), buff[:])
}

// WriteRegister writes a raw register. No range or meaning checks; only use
// if you know what you're doing.
func (d *LP50XX) WriteRegister(reg, value byte, at AddressType) error {
	return d.writeReg(d.address(at), reg, value)
}

// ReadRegister reads a raw register. Reads always go to the primary
// address; a broadcast read would have every chip on the bus answer at
// once.
func (d *LP50XX) ReadRegister(reg byte) (byte, error) {
	return d.readReg(d.addr, reg)
}

// Close releases nothing; the bus and the EN pin are owned by the caller.
func (d *LP50XX) Close() error { return nil }

// address resolves an AddressType to a concrete bus address. Unrecognized
// values fall back to the primary address.
func (d *LP50XX) address(at AddressType) byte {
	switch at {
	case Broadcast:
		return d.broadcast
	default:
		return d.addr
	}
}

// setConfigBit read-modify-writes a single DEVICE_CONFIG1 bit at the
// primary address, leaving the other bits as they are on the chip.
func (d *LP50XX) setConfigBit(mask byte, on bool) error {
	buff, err := d.readReg(d.addr, RegDeviceConfig1)
	if err != nil {
		return err
	}
	if on {
		buff |= mask
	} else {
		buff &^= mask
	}
	return d.writeReg(d.addr, RegDeviceConfig1, buff)
}

func (d *LP50XX) checkLED(led int) error {
	n := d.outputs / 3
	if led < 0 || led >= n {
		return fmt.Errorf("lp50xx addr=0x%02X: led %d out of range 0..%d: %w", d.addr, led, n-1, ErrInvalidChannel)
	}
	return nil
}

func (d *LP50XX) checkOutput(output int) error {
	if output < 0 || output >= d.outputs {
		return fmt.Errorf("lp50xx addr=0x%02X: output %d out of range 0..%d: %w", d.addr, output, d.outputs-1, ErrInvalidChannel)
	}
	return nil
}

func (d *LP50XX) writeReg(addr, reg, value byte) error {
	d.dbg("write addr=0x%02X reg=0x%02X value=0x%02X", addr, reg, value)
	if err := d.bus.WriteToReg(addr, reg, []byte{value}); err != nil {
		return fmt.Errorf("lp50xx addr=0x%02X: write reg=0x%02X: %w", addr, reg, err)
	}
	return nil
}

func (d *LP50XX) writeBurst(addr, reg byte, value []byte) error {
	d.dbg("write addr=0x%02X reg=0x%02X value=% X", addr, reg, value)
	if err := d.bus.WriteToReg(addr, reg, value); err != nil {
		return fmt.Errorf("lp50xx addr=0x%02X: write reg=0x%02X len=%d: %w", addr, reg, len(value), err)
	}
	return nil
}

func (d *LP50XX) readReg(addr, reg byte) (byte, error) {
	buff := make([]byte, 1)
	if err := d.bus.ReadFromReg(addr, reg, buff); err != nil {
		return 0, fmt.Errorf("lp50xx addr=0x%02X: read reg=0x%02X: %w", addr, reg, err)
	}
	d.dbg("read addr=0x%02X reg=0x%02X value=0x%02X", addr, reg, buff[0])
	return buff[0], nil
}

func (d *LP50XX) dbg(format string, args ...interface{}) {
	if !d.debug {
		return
	}
	log.Printf("lp50xx "+format, args...)
}
