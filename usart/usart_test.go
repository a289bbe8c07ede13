package usart_test

import (
	"testing"
	"time"

	"hatchctl/mmio"
	"hatchctl/usart"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	sleeps  int
	onSleep func()
}

func (f *fakeClock) Sleep(d time.Duration) {
	f.sleeps++
	if f.onSleep != nil {
		f.onSleep()
	}
}

// wire captures writes to the data register so a test can see every byte
// that went out, not just the last one.
type wire struct {
	*mmio.Mem
	sent []byte
}

func (w *wire) Write(addr mmio.Addr, value uint32) {
	if addr == usart.Data {
		w.sent = append(w.sent, byte(value))
	}
	w.Mem.Write(addr, value)
}

func TestInitEnablesPeripheralClock(t *testing.T) {
	m := mmio.NewMem()
	p := usart.New(m, &fakeClock{})

	p.Init()

	assert.Equal(t, uint32(1<<18), m.Read(mmio.Addr(0x40023840)))
}

func TestSendBlocksUntilTransmitReady(t *testing.T) {
	w := &wire{Mem: mmio.NewMem()}
	fc := &fakeClock{}
	fc.onSleep = func() {
		if fc.sleeps == 2 {
			w.Mem.SetBits(usart.Status, usart.TXE)
		}
	}
	p := usart.New(w, fc)

	p.Send('x')

	assert.Equal(t, 2, fc.sleeps, "polled status until TXE")
	assert.Equal(t, []byte{'x'}, w.sent)
}

func TestSendString(t *testing.T) {
	w := &wire{Mem: mmio.NewMem()}
	w.Mem.SetBits(usart.Status, usart.TXE)
	p := usart.New(w, &fakeClock{})

	p.SendString("ok?")

	assert.Equal(t, []byte("ok?"), w.sent)
}

func TestTryReceive(t *testing.T) {
	m := mmio.NewMem()
	p := usart.New(m, &fakeClock{})

	_, ok := p.TryReceive()
	assert.False(t, ok, "nothing waiting")

	m.Write(usart.Data, 'h')
	m.SetBits(usart.Status, usart.RXNE)

	b, ok := p.TryReceive()
	assert.True(t, ok)
	assert.Equal(t, byte('h'), b)
}

func TestReceiveBlocksUntilByteAvailable(t *testing.T) {
	m := mmio.NewMem()
	fc := &fakeClock{}
	fc.onSleep = func() {
		if fc.sleeps == 3 {
			m.Write(usart.Data, 'z')
			m.SetBits(usart.Status, usart.RXNE)
		}
	}
	p := usart.New(m, fc)

	assert.Equal(t, byte('z'), p.Receive())
	assert.Equal(t, 3, fc.sleeps)
}
