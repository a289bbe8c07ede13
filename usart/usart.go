// Package usart is a polled serial driver over the same register-access
// layer the GPIO core uses. The control loop does not depend on it; it is a
// peer driver for the board's third USART.
package usart

import (
	"time"

	"hatchctl/mmio"
)

const (
	Base mmio.Addr = 0x40004800

	Status = Base        // status register
	Data   = Base + 0x04 // data register, tx and rx share it
)

// Status register bits.
const (
	RXNE uint32 = 1 << 5 // receive buffer not empty
	TXE  uint32 = 1 << 7 // transmit buffer empty
)

// PollInterval spaces the status-register reads while waiting to send or
// receive.
const PollInterval = time.Millisecond

// Clock matches controller.Clock; redeclared so this package stays
// independent of the control loop.
type Clock interface {
	Sleep(d time.Duration)
}

// Port is a polled byte transport. Send and Receive block; TryReceive does
// not. There are no timeouts anywhere, the same busy-poll contract as the
// rest of the device.
type Port struct {
	regs  mmio.RegisterFile
	clock Clock
}

func New(regs mmio.RegisterFile, clock Clock) *Port {
	return &Port{
		regs:  regs,
		clock: clock,
	}
}

// APB1 peripheral clock enable; USART3 sits at bit 18.
const (
	apb1Enable      mmio.Addr = 0x40023840
	usart3ClockMask uint32    = 1 << 18
)

// Init enables the USART peripheral clock. One-time, before any transfer.
func (p *Port) Init() {
	mmio.Set(p.regs, apb1Enable, usart3ClockMask)
}

// Send blocks until the transmit buffer is empty, then writes b to the data
// register.
func (p *Port) Send(b byte) {
	for !mmio.Test(p.regs, Status, TXE) {
		p.clock.Sleep(PollInterval)
	}
	p.regs.Write(Data, uint32(b))
}

func (p *Port) SendString(s string) {
	for i := 0; i < len(s); i++ {
		p.Send(s[i])
	}
}

// TryReceive returns the next received byte, or false if none is waiting.
func (p *Port) TryReceive() (byte, bool) {
	if !mmio.Test(p.regs, Status, RXNE) {
		return 0, false
	}
	return byte(p.regs.Read(Data)), true
}

// Receive blocks until a byte is available.
func (p *Port) Receive() byte {
	for {
		b, ok := p.TryReceive()
		if ok {
			return b
		}
		p.clock.Sleep(PollInterval)
	}
}
