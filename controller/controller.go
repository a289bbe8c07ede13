// Package controller runs the single-threaded polling loop that sequences
// the progress LEDs, watches the door sensor and interprets the control
// inputs into motor, latch and direction state.
package controller

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hatchctl/board"
	"hatchctl/mmio"
	"hatchctl/pubsub"
)

var clog zerolog.Logger

func init() {
	clog = log.With().Str("component", "controller").Logger()
}

// Timing contracts. The LED delays block the whole loop, so inputs are only
// sampled once per ~1.5 s cycle; that is deliberate, not an oversight.
const (
	LedOnDuration  = 1000 * time.Millisecond
	LedOffDuration = 500 * time.Millisecond

	// DoorPollInterval spaces the reads of the busy-poll that waits for
	// the door to close. There is no timeout: a stuck-open door blocks
	// the loop forever.
	DoorPollInterval = time.Millisecond

	// StartupSettle gives the (emulated) hardware time to come up before
	// the peripheral clock is enabled.
	StartupSettle = 3 * time.Second
)

// Controller owns the loop state: the LED cycle position and the software
// direction flag. Everything else lives in the hardware registers and is
// re-read on every access.
type Controller struct {
	regs  mmio.RegisterFile
	clock Clock

	leds      *Cycle[board.Pin]
	direction bool
	rules     []Rule

	ps      *pubsub.Pubsub[Event]
	running bool
}

func New(regs mmio.RegisterFile, clock Clock) *Controller {
	return &Controller{
		regs:  regs,
		clock: clock,
		leds:  NewCycle(board.Leds[:]),
		rules: defaultRules(),
		ps:    pubsub.New[Event](),
	}
}

// Subscribe returns a cancel func and a channel of controller events.
func (c *Controller) Subscribe() (func(), <-chan Event) {
	handle, ch := c.ps.Subscribe()
	return func() {
		c.ps.Unsubscribe(handle)
	}, ch
}

// Run configures the output pins and then loops forever. On the device the
// loop only ends at power-off; the context exists for the host harness and
// tests, not as a feature of the device.
func (c *Controller) Run(ctx context.Context) {
	if c.running {
		clog.Fatal().Msg("Cannot call Controller.Run more than once")
	}
	c.running = true

	c.clock.Sleep(StartupSettle)
	board.EnableClock(c.regs)
	board.ConfigureOutputs(c.regs)
	clog.Info().Msg("Running control loop")

	for {
		if ctx.Err() != nil {
			clog.Info().Msg("Aborting control loop")
			return
		}
		c.Step()
	}
}

// Step runs exactly one loop iteration: door check, LED on/off, advance,
// then one input sample through the rule chain. The order is part of the
// contract.
func (c *Controller) Step() {
	clog.Debug().Msg("loop")

	c.watchDoor()

	led := c.leds.Current()
	mmio.Set(c.regs, board.Odr, led.Mask())
	c.ps.Publish(Event{Kind: EventLed, Pin: led.Name, On: true})
	c.clock.Sleep(LedOnDuration)

	mmio.Clear(c.regs, board.Odr, led.Mask())
	c.ps.Publish(Event{Kind: EventLed, Pin: led.Name, On: false})
	c.clock.Sleep(LedOffDuration)

	c.leds.Advance()

	// One snapshot for the whole iteration; first matching rule wins and
	// the rest are not evaluated.
	idr := c.regs.Read(board.Idr)
	for _, r := range c.rules {
		if r.Matches(idr) {
			r.Apply(c)
			break
		}
	}
}

// watchDoor blocks the loop while the door is open. When it closes, the
// three pressure-sensor bits are decoded and reported.
func (c *Controller) watchDoor() {
	if !mmio.Test(c.regs, board.Idr, board.Door.Mask()) {
		return
	}

	clog.Info().Msg("door open")
	c.ps.Publish(Event{Kind: EventDoorOpened})

	for mmio.Test(c.regs, board.Idr, board.Door.Mask()) {
		c.clock.Sleep(DoorPollInterval)
	}

	keys := board.PressureValue(c.regs.Read(board.Idr))
	clog.Info().Uint32("pskeys", keys).Msg("door closed")
	c.ps.Publish(Event{Kind: EventDoorClosed, Pressure: keys})
}
