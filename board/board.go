// Package board maps the controller's symbolic pins onto the device's
// GPIOD register block and owns the one-time mode configuration.
package board

import "hatchctl/mmio"

// GPIOD register block.
const (
	GPIODBase mmio.Addr = 0x40020C00

	Moder = GPIODBase        // 2-bit mode field per pin
	Idr   = GPIODBase + 0x10 // input data, read-only
	Odr   = GPIODBase + 0x14 // output data
)

// AHB1 peripheral clock enable; GPIOD sits at bit 3.
const (
	AHB1Enable     mmio.Addr = 0x40023830
	gpiodClockMask uint32    = 1 << 3
)

// Pin is a named bit position within a register. Pins are fixed for the
// process lifetime.
type Pin struct {
	Name string
	Bit  uint
}

func (p Pin) Mask() uint32 {
	return 1 << p.Bit
}

// Input pins, on Idr.
var (
	Door   = Pin{"door", 0}
	PS1    = Pin{"ps1", 1}
	PS2    = Pin{"ps2", 2}
	PS3    = Pin{"ps3", 3}
	Cancel = Pin{"cancel", 4}
	Accept = Pin{"accept", 5}

	// Sensor is wired on the board but nothing reads it yet; it is kept
	// as a reserved input so the bit position stays claimed.
	Sensor = Pin{"sensor", 6}
)

// Output pins, on Odr.
var (
	LedA      = Pin{"led_a", 8}
	LedB      = Pin{"led_b", 9}
	LedC      = Pin{"led_c", 10}
	LedD      = Pin{"led_d", 11}
	Motor     = Pin{"motor", 12}
	Direction = Pin{"direction", 13}
	Latch     = Pin{"latch", 14}
)

// Leds in sequencer order.
var Leds = [4]Pin{LedA, LedB, LedC, LedD}

// Inputs in bit order, used by the simulation harness.
var Inputs = []Pin{Door, PS1, PS2, PS3, Cancel, Accept, Sensor}

// Outputs in bit order, used by mode configuration and the hardware
// backend.
var Outputs = []Pin{LedA, LedB, LedC, LedD, Motor, Direction, Latch}

// InputByName resolves a panel input name to its pin.
func InputByName(name string) (Pin, bool) {
	for _, p := range Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return Pin{}, false
}

// EnableClock turns on the GPIOD peripheral clock. Must happen before any
// other GPIOD register access.
func EnableClock(rf mmio.RegisterFile) {
	mmio.Set(rf, AHB1Enable, gpiodClockMask)
}

// ConfigureOutputs programs the 2-bit Moder field of every output pin to
// the "output" encoding (0b01). One-time initialization, not part of the
// steady-state loop.
func ConfigureOutputs(rf mmio.RegisterFile) {
	var clearMask, setMask uint32
	for _, p := range Outputs {
		clearMask |= 0b11 << (p.Bit * 2)
		setMask |= 0b01 << (p.Bit * 2)
	}
	mmio.Clear(rf, Moder, clearMask)
	mmio.Set(rf, Moder, setMask)
}

// PressureValue decodes PS1..PS3 from an Idr snapshot as a 3-bit number,
// PS1 being the least significant bit.
func PressureValue(idr uint32) uint32 {
	return (idr >> PS1.Bit) & 0b111
}
