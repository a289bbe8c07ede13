//go:build gpio

package hw

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"hatchctl/board"
	"hatchctl/mmio"
)

// Open maps the board's register bits onto Raspberry Pi GPIO pins. Pinout
// lists BCM pin numbers: the 7 input pins in board.Inputs order, then the 7
// output pins in board.Outputs order.
//
// Reads of the input register assemble the live pin levels into the
// register image; writes to the output register drive the pins. Everything
// else (mode register, clock enable) lands in a plain backing store, since
// the Pi has no such registers to program.
func Open(pinout []int) (mmio.RegisterFile, *mmio.Mem, error) {
	want := len(board.Inputs) + len(board.Outputs)
	if len(pinout) != want {
		return nil, nil, fmt.Errorf("pinout needs %d pins (inputs then outputs), got %d", want, len(pinout))
	}

	if err := rpio.Open(); err != nil {
		return nil, nil, err
	}

	d := &device{
		mem: mmio.NewMem(),
	}
	for i := range board.Inputs {
		pin := rpio.Pin(pinout[i])
		pin.Input()
		d.inputs = append(d.inputs, pin)
	}
	for i := range board.Outputs {
		pin := rpio.Pin(pinout[len(board.Inputs)+i])
		pin.Output()
		pin.Low()
		d.outputs = append(d.outputs, pin)
	}

	return d, nil, nil
}

func Close() error {
	return rpio.Close()
}

type device struct {
	inputs  []rpio.Pin
	outputs []rpio.Pin
	mem     *mmio.Mem
}

func (d *device) Read(addr mmio.Addr) uint32 {
	if addr == board.Idr {
		var v uint32
		for i, pin := range d.inputs {
			if pin.Read() == rpio.High {
				v |= board.Inputs[i].Mask()
			}
		}
		return v
	}
	return d.mem.Read(addr)
}

func (d *device) Write(addr mmio.Addr, value uint32) {
	d.mem.Write(addr, value)
	if addr != board.Odr {
		return
	}
	for i, pin := range d.outputs {
		if value&board.Outputs[i].Mask() != 0 {
			pin.High()
		} else {
			pin.Low()
		}
	}
}
