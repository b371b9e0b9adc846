// factory.go
//
// LP5009/LP5012 driver factory for reef-pi.
//
// This file wires the chip into reef-pi's HAL driver system:
//   - Declares driver metadata (name/description/capabilities)
//   - Exposes UI configuration parameters
//   - Validates configuration
//   - Constructs a driver instance and enables the chip
//
// Parameter notes:
//   - Address is the strapping-dependent primary address ("0x14" for ADDR
//     grounded). Broadcast writes are a per-call concern of the LP50XX API
//     and are not a factory parameter.
//   - Order describes the RGB wiring of the LED footprints (RGB/GRB/BGR/
//     RBG/GBR/BRG).
//   - Outputs selects the part: 9 for LP5009, 12 for LP5012.
//   - EnablePin is the BCM GPIO driving the chip's EN line, -1 when EN is
//     strapped high in hardware.
//
package lp50xx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/reef-pi/hal"
	"github.com/reef-pi/rpi/i2c"
)

const driverName = "lp50xx"

const (
	paramAddress   = "Address"   // string, e.g. "0x14"
	paramOrder     = "Order"     // string, one of RGB/GRB/BGR/RBG/GBR/BRG
	paramOutputs   = "Outputs"   // int, 9 (LP5009) or 12 (LP5012)
	paramEnablePin = "EnablePin" // int, BCM GPIO of the EN line, -1 = none
	paramDebug     = "Debug"     // bool
)

type factory struct {
	meta       hal.Metadata
	parameters []hal.ConfigParameter
}

var (
	f    *factory
	once sync.Once
)

func Factory() hal.DriverFactory {
	once.Do(func() {
		f = &factory{
			meta: hal.Metadata{
				Name:         driverName,
				Description:  "TI LP5009/LP5012 9/12-output I2C RGB LED driver. One PWM channel per output (0..100 maps to 0..255).",
				Capabilities: []hal.Capability{hal.PWM},
			},
			parameters: []hal.ConfigParameter{
				{Name: paramAddress, Type: hal.String, Order: 0, Default: "0x14"},
				{Name: paramOrder, Type: hal.String, Order: 1, Default: "RGB"},
				{Name: paramOutputs, Type: hal.Integer, Order: 2, Default: LP5012Outputs},
				{Name: paramEnablePin, Type: hal.Integer, Order: 3, Default: -1},
				{Name: paramDebug, Type: hal.Boolean, Order: 4, Default: false},
			},
		}
	})
	return f
}

func (f *factory) Metadata() hal.Metadata               { return f.meta }
func (f *factory) GetParameters() []hal.ConfigParameter { return f.parameters }

// parseAddr accepts "0x14" style hex or "20" style decimal.
// Returns a 7-bit I2C address byte.
func parseAddr(s string) (byte, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}
	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		return byte(v), err
	}
	v, err := strconv.ParseUint(s, 10, 8)
	return byte(v), err
}

func (f *factory) ValidateParameters(params map[string]interface{}) (bool, map[string][]string) {
	errs := make(map[string][]string)

	addrStr, _ := params[paramAddress].(string)
	addrStr = strings.TrimSpace(addrStr)
	if addrStr == "" {
		errs[paramAddress] = append(errs[paramAddress], "is required (e.g. 0x14)")
	} else {
		addr, err := parseAddr(addrStr)
		if err != nil {
			errs[paramAddress] = append(errs[paramAddress], "must be a valid I2C address like 0x14")
		} else if addr > 127 {
			errs[paramAddress] = append(errs[paramAddress], "must be a 7-bit address (0..127)")
		}
	}

	if v, ok := params[paramOrder]; ok {
		s, ok := v.(string)
		if !ok {
			errs[paramOrder] = append(errs[paramOrder], "must be a string")
		} else if _, err := ParseColorOrder(s); err != nil {
			errs[paramOrder] = append(errs[paramOrder], "must be one of RGB, GRB, BGR, RBG, GBR, BRG")
		}
	}

	if v, ok := params[paramOutputs]; ok {
		n, ok := toInt(v)
		if !ok || (n != LP5009Outputs && n != LP5012Outputs) {
			errs[paramOutputs] = append(errs[paramOutputs], "must be 9 (LP5009) or 12 (LP5012)")
		}
	}

	if v, ok := params[paramEnablePin]; ok {
		pin, ok := toInt(v)
		if !ok || pin < -1 || pin > 27 {
			errs[paramEnablePin] = append(errs[paramEnablePin], "must be -1 (no EN line) or a BCM GPIO 0..27")
		}
	}

	if v, ok := params[paramDebug]; ok {
		if _, ok := toBool(v); !ok {
			errs[paramDebug] = append(errs[paramDebug], "must be boolean")
		}
	}

	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

func (f *factory) NewDriver(params map[string]interface{}, bus interface{}) (hal.Driver, error) {
	// reef-pi may call ValidateParameters separately; don't rely on it.
	if ok, failures := f.ValidateParameters(params); !ok {
		return nil, errors.New(hal.ToErrorString(failures))
	}

	i2cBus, ok := bus.(i2c.Bus)
	if !ok {
		return nil, fmt.Errorf("lp50xx: expected i2c.Bus, got %T", bus)
	}

	addrStr, _ := params[paramAddress].(string)
	addr, err := parseAddr(addrStr)
	if err != nil {
		return nil, fmt.Errorf("lp50xx: invalid %s %q: %w", paramAddress, addrStr, err)
	}

	order := RGB
	if s, ok := params[paramOrder].(string); ok {
		order, err = ParseColorOrder(s)
		if err != nil {
			return nil, err
		}
	}

	outputs := getInt(params, paramOutputs, LP5012Outputs)
	enablePin := getInt(params, paramEnablePin, -1)
	debug := getBool(params, paramDebug, false)

	if debug {
		if b, err := json.MarshalIndent(params, "", "  "); err == nil {
			log.Printf("lp50xx NewDriver params:\n%s", string(b))
		}
	}

	var en hal.DigitalOutputPin
	if enablePin >= 0 {
		en, err = NewRPiEnablePin(enablePin)
		if err != nil {
			return nil, fmt.Errorf("lp50xx: EN line on GPIO%d: %w", enablePin, err)
		}
	}

	hw, err := New(i2cBus, Config{
		Order:     order,
		EnablePin: en,
		Outputs:   outputs,
		Debug:     debug,
	})
	if err != nil {
		return nil, err
	}

	// Enable sequencing + Chip_EN. Leaves the chip on with all outputs at
	// their register defaults (off).
	if err := hw.Begin(addr); err != nil {
		return nil, err
	}

	d := &lp50xxDriver{
		hw:    hw,
		addr:  addr,
		debug: debug,
		meta:  f.meta,
	}
	for i := 0; i < outputs; i++ {
		d.channels = append(d.channels, &lp50xxChannel{driver: d, output: i})
	}

	log.Printf("lp50xx init addr=0x%02X order=%s outputs=%d enable_pin=%d debug=%v",
		addr, order, outputs, enablePin, debug)

	return d, nil
}

// ----------------- helpers -----------------

// getInt reads an integer parameter from the config map.
// reef-pi may provide values as float64 (JSON) or string, so we normalize.
func getInt(m map[string]interface{}, key string, def int) int {
	v, ok := m[key]
	if !ok {
		return def
	}
	if i, ok := toInt(v); ok {
		return i
	}
	return def
}

// getBool reads a boolean parameter from the config map.
func getBool(m map[string]interface{}, key string, def bool) bool {
	v, ok := m[key]
	if !ok {
		return def
	}
	if b, ok := toBool(v); ok {
		return b
	}
	return def
}

// toInt normalizes various types into an int.
// reef-pi often passes JSON numbers as float64.
func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// toBool normalizes various types into a bool.
func toBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case int:
		return t != 0, true
	case int64:
		return t != 0, true
	case float64:
		return t != 0, true
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		switch s {
		case "1", "true", "yes", "y", "on":
			return true, true
		case "0", "false", "no", "n", "off":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}
