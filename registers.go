// registers.go
//
// LP50XX register map and register-level constants.
//
// The map below covers the whole LP50xx family layout. The LP5009 uses
// LED0..LED2 / OUT0..OUT8, the LP5012 uses LED0..LED3 / OUT0..OUT11; the
// higher brightness and color registers exist on the larger family members
// and are listed so WriteRegister/ReadRegister callers can name them.
//
package lp50xx

import (
	"fmt"
	"strings"
)

// Factory-default I2C addresses. The primary address depends on the ADDR
// pin strapping; 0x14 is the ADDR0 (grounded) variant. 0x0C is answered
// by every LP50xx on the bus regardless of strapping.
const (
	DefaultAddress   byte = 0x14
	BroadcastAddress byte = 0x0C
)

// Output counts of the two supported parts.
const (
	LP5009Outputs = 9  // 3 RGB LEDs
	LP5012Outputs = 12 // 4 RGB LEDs
)

// Registers.
const (
	RegDeviceConfig0  byte = 0x00 // Chip_EN
	RegDeviceConfig1  byte = 0x01 // Log_scale, Power_save, Auto_inc, PWM_dithering, Max_current_option, LED_Global_off
	RegLEDConfig0     byte = 0x02 // Bank LED-select mask
	RegBankBrightness byte = 0x03 // Bank brightness level
	RegBankAColor     byte = 0x04 // Bank color A (outputs 0,3,6,9)
	RegBankBColor     byte = 0x05 // Bank color B (outputs 1,4,7,10)
	RegBankCColor     byte = 0x06 // Bank color C (outputs 2,5,8,11)
	RegLED0Brightness byte = 0x07
	RegLED1Brightness byte = 0x08
	RegLED2Brightness byte = 0x09
	RegLED3Brightness byte = 0x0A // LP5012 and up
	RegLED4Brightness byte = 0x0B
	RegLED5Brightness byte = 0x0C
	RegLED6Brightness byte = 0x0D
	RegLED7Brightness byte = 0x0E
	RegOut0Color      byte = 0x0F
	RegOut1Color      byte = 0x10
	RegOut2Color      byte = 0x11
	RegOut3Color      byte = 0x12
	RegOut4Color      byte = 0x13
	RegOut5Color      byte = 0x14
	RegOut6Color      byte = 0x15
	RegOut7Color      byte = 0x16
	RegOut8Color      byte = 0x17
	RegOut9Color      byte = 0x18 // LP5012 and up
	RegOut10Color     byte = 0x19 // LP5012 and up
	RegOut11Color     byte = 0x1A // LP5012 and up
	RegOut12Color     byte = 0x1B
	RegOut13Color     byte = 0x1C
	RegOut14Color     byte = 0x1D
	RegOut15Color     byte = 0x1E
	RegOut16Color     byte = 0x1F
	RegOut17Color     byte = 0x20
	RegOut18Color     byte = 0x21
	RegOut19Color     byte = 0x22
	RegOut20Color     byte = 0x23
	RegOut21Color     byte = 0x24
	RegOut22Color     byte = 0x25
	RegOut23Color     byte = 0x26
	RegResetRegisters byte = 0x27 // write 0xFF to reset all registers
)

// DEVICE_CONFIG0 bits.
const chipEnable byte = 1 << 6

// ConfigFlags is the DEVICE_CONFIG1 value passed to Configure. OR the
// constants together; each on/off pair controls one bit and the zero-valued
// half is the chip's power-on default.
type ConfigFlags byte

const (
	LEDGlobalOn     ConfigFlags = 0
	LEDGlobalOff    ConfigFlags = 1 << 0
	MaxCurrent25mA  ConfigFlags = 0
	MaxCurrent35mA  ConfigFlags = 1 << 1
	PWMDitheringOff ConfigFlags = 0
	PWMDitheringOn  ConfigFlags = 1 << 2
	AutoIncOff      ConfigFlags = 0
	AutoIncOn       ConfigFlags = 1 << 3
	PowerSaveOff    ConfigFlags = 0
	PowerSaveOn     ConfigFlags = 1 << 4
	LogScaleOff     ConfigFlags = 0
	LogScaleOn      ConfigFlags = 1 << 5
)

// configMask keeps writes inside the 6 defined DEVICE_CONFIG1 bits.
const configMask byte = 0x3F

// LED-select masks for SetBankControl, e.g. SetBankControl(LED0|LED1, Normal).
const (
	LED0 byte = 1 << iota
	LED1
	LED2
	LED3 // LP5012 only
)

// AddressType selects which stored I2C address an operation targets.
type AddressType uint8

const (
	// Normal targets the device's primary address.
	Normal AddressType = iota
	// Broadcast targets the shared broadcast address; every LP50xx on the
	// bus applies the write.
	Broadcast
)

// ColorOrder describes how the R, G and B channels of an RGB LED are wired
// to the three consecutive outputs of an LED slot.
type ColorOrder uint8

const (
	RGB ColorOrder = iota
	GRB
	BGR
	RBG
	GBR
	BRG
)

// orderOffsets[o][slot] is the source channel (0=red 1=green 2=blue) that
// lands in wire slot 0..2 for order o.
var orderOffsets = [...][3]uint8{
	RGB: {0, 1, 2},
	GRB: {1, 0, 2},
	BGR: {2, 1, 0},
	RBG: {0, 2, 1},
	GBR: {1, 2, 0},
	BRG: {2, 0, 1},
}

// permute rearranges an r,g,b triplet into wire order.
func (o ColorOrder) permute(r, g, b byte) [3]byte {
	rgb := [3]byte{r, g, b}
	ofs := orderOffsets[o]
	return [3]byte{rgb[ofs[0]], rgb[ofs[1]], rgb[ofs[2]]}
}

func (o ColorOrder) String() string {
	switch o {
	case RGB:
		return "RGB"
	case GRB:
		return "GRB"
	case BGR:
		return "BGR"
	case RBG:
		return "RBG"
	case GBR:
		return "GBR"
	case BRG:
		return "BRG"
	default:
		return fmt.Sprintf("ColorOrder(%d)", uint8(o))
	}
}

// ParseColorOrder accepts the six wiring names, case-insensitively.
func ParseColorOrder(s string) (ColorOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RGB":
		return RGB, nil
	case "GRB":
		return GRB, nil
	case "BGR":
		return BGR, nil
	case "RBG":
		return RBG, nil
	case "GBR":
		return GBR, nil
	case "BRG":
		return BRG, nil
	default:
		return RGB, fmt.Errorf("lp50xx: unknown color order %q", s)
	}
}
