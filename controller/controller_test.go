package controller_test

import (
	"context"
	"testing"
	"time"

	"hatchctl/board"
	"hatchctl/controller"
	"hatchctl/mmio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock records every sleep and lets a test observe or mutate the
// register file mid-iteration.
type fakeClock struct {
	sleeps  []time.Duration
	onSleep func(d time.Duration)
}

func (f *fakeClock) Sleep(d time.Duration) {
	f.sleeps = append(f.sleeps, d)
	if f.onSleep != nil {
		f.onSleep(d)
	}
}

func litLeds(m *mmio.Mem) []string {
	odr := m.Read(board.Odr)
	var lit []string
	for _, led := range board.Leds {
		if odr&led.Mask() != 0 {
			lit = append(lit, led.Name)
		}
	}
	return lit
}

func drain(ch <-chan controller.Event) []controller.Event {
	var events []controller.Event
	for {
		select {
		case e := <-ch:
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestExactlyOneLedDuringOnPhaseNoneDuringOff(t *testing.T) {
	m := mmio.NewMem()
	fc := &fakeClock{}
	fc.onSleep = func(d time.Duration) {
		switch d {
		case controller.LedOnDuration:
			assert.Len(t, litLeds(m), 1, "ON phase")
		case controller.LedOffDuration:
			assert.Empty(t, litLeds(m), "OFF phase")
		}
	}
	c := controller.New(m, fc)

	for i := 0; i < 4; i++ {
		c.Step()
	}
}

func TestLedSequenceAdvancesAndWraps(t *testing.T) {
	m := mmio.NewMem()
	fc := &fakeClock{}
	var order []string
	fc.onSleep = func(d time.Duration) {
		if d == controller.LedOnDuration {
			order = append(order, litLeds(m)...)
		}
	}
	c := controller.New(m, fc)

	for i := 0; i < 5; i++ {
		c.Step()
	}

	assert.Equal(t, []string{"led_a", "led_b", "led_c", "led_d", "led_a"}, order)
}

func TestAcceptWinsOverCancel(t *testing.T) {
	m := mmio.NewMem()
	m.SetBits(board.Idr, board.Accept.Mask()|board.Cancel.Mask())
	c := controller.New(m, &fakeClock{})

	c.Step()

	assert.True(t, mmio.Test(m, board.Odr, board.Motor.Mask()), "motor energized")
	assert.True(t, mmio.Test(m, board.Odr, board.Latch.Mask()), "latch engaged")
}

func TestCancelWinsOverDirectionToggle(t *testing.T) {
	m := mmio.NewMem()
	m.SetBits(board.Odr, board.Motor.Mask()|board.Latch.Mask())
	m.SetBits(board.Idr, board.Cancel.Mask()|board.PS3.Mask())
	c := controller.New(m, &fakeClock{})

	c.Step()

	assert.False(t, mmio.Test(m, board.Odr, board.Motor.Mask()), "motor de-energized")
	assert.False(t, mmio.Test(m, board.Odr, board.Latch.Mask()), "latch disengaged")
	assert.False(t, mmio.Test(m, board.Odr, board.Direction.Mask()), "direction output untouched")

	// The direction flag must not have been consumed by the losing rule:
	// the next PS3-only iteration is its first toggle.
	m.ClearBits(board.Idr, board.Cancel.Mask())
	c.Step()

	assert.True(t, mmio.Test(m, board.Odr, board.Direction.Mask()))
}

func TestDirectionTogglesOncePerPS3Iteration(t *testing.T) {
	m := mmio.NewMem()
	m.SetBits(board.Idr, board.PS3.Mask())
	c := controller.New(m, &fakeClock{})

	c.Step()
	assert.True(t, mmio.Test(m, board.Odr, board.Direction.Mask()), "first toggle sets direction")

	c.Step()
	assert.False(t, mmio.Test(m, board.Odr, board.Direction.Mask()), "second toggle restores it")
}

func TestDoorBlocksLoopAndDecodesPressureKeys(t *testing.T) {
	m := mmio.NewMem()
	m.SetBits(board.Idr, board.Door.Mask()|board.PS1.Mask()|board.PS3.Mask())

	polls := 0
	fc := &fakeClock{}
	fc.onSleep = func(d time.Duration) {
		if d == controller.DoorPollInterval {
			polls++
			if polls == 3 {
				m.ClearBits(board.Idr, board.Door.Mask())
			}
		}
	}
	c := controller.New(m, fc)
	unsub, ch := c.Subscribe()
	defer unsub()

	c.Step()

	assert.Equal(t, 3, polls, "loop polled until the door cleared")
	require.NotEmpty(t, fc.sleeps)
	assert.Equal(t, controller.DoorPollInterval, fc.sleeps[0], "door wait precedes the LED phase")

	events := drain(ch)
	require.NotEmpty(t, events)
	assert.Equal(t, controller.EventDoorOpened, events[0].Kind)

	var closed *controller.Event
	for i := range events {
		if events[i].Kind == controller.EventDoorClosed {
			closed = &events[i]
			break
		}
	}
	require.NotNil(t, closed, "door_closed event published")
	assert.Equal(t, uint32(5), closed.Pressure, "PS1=1 PS2=0 PS3=1 decodes as 5")
}

func TestIdleIterationChangesNothingButTheLed(t *testing.T) {
	m := mmio.NewMem()
	c := controller.New(m, &fakeClock{})
	unsub, ch := c.Subscribe()
	defer unsub()

	c.Step()

	events := drain(ch)
	require.Len(t, events, 2, "only the LED on/off pair")
	assert.Equal(t, controller.Event{Kind: controller.EventLed, Pin: "led_a", On: true}, events[0])
	assert.Equal(t, controller.Event{Kind: controller.EventLed, Pin: "led_a", On: false}, events[1])

	actuators := board.Motor.Mask() | board.Latch.Mask() | board.Direction.Mask()
	assert.False(t, mmio.Test(m, board.Odr, actuators), "actuators unchanged")
}

func TestInputsSampledOncePerIteration(t *testing.T) {
	m := mmio.NewMem()
	fc := &fakeClock{}
	// Press accept during the OFF delay: the single snapshot is taken
	// after both LED delays, so the press lands in this same iteration.
	fc.onSleep = func(d time.Duration) {
		if d == controller.LedOffDuration {
			m.SetBits(board.Idr, board.Accept.Mask())
		}
	}
	c := controller.New(m, fc)

	c.Step()

	assert.True(t, mmio.Test(m, board.Odr, board.Motor.Mask()))
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	m := mmio.NewMem()
	c := controller.New(m, &fakeClock{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.Run(ctx) // must return, not loop forever

	// Setup still ran: clock enabled and output modes programmed
	assert.True(t, mmio.Test(m, board.AHB1Enable, 1<<3))
	assert.Equal(t, uint32(0x1555)<<(board.LedA.Bit*2), m.Read(board.Moder))
}
