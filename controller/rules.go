package controller

import (
	"hatchctl/board"
	"hatchctl/mmio"
)

// A Rule pairs an input condition with an actuator action. The loop
// evaluates its rules in order against one snapshot of the input register
// and applies only the first that matches, so the ordering IS the policy:
// accept dominates cancel, cancel dominates the direction toggle.
type Rule struct {
	Name  string
	Mask  uint32
	Apply func(c *Controller)
}

func (r Rule) Matches(idr uint32) bool {
	return idr&r.Mask != 0
}

func defaultRules() []Rule {
	return []Rule{
		{Name: "accept", Mask: board.Accept.Mask(), Apply: (*Controller).engage},
		{Name: "cancel", Mask: board.Cancel.Mask(), Apply: (*Controller).disengage},
		{Name: "ps3", Mask: board.PS3.Mask(), Apply: (*Controller).toggleDirection},
	}
}

// engage energizes the motor and the latch solenoid. There is no release
// path here other than the cancel rule.
func (c *Controller) engage() {
	clog.Info().Msg("motor on")
	mmio.Set(c.regs, board.Odr, board.Motor.Mask())
	mmio.Set(c.regs, board.Odr, board.Latch.Mask())
	c.ps.Publish(Event{Kind: EventMotor, Pin: board.Motor.Name, On: true})
	c.ps.Publish(Event{Kind: EventLatch, Pin: board.Latch.Name, On: true})
}

// disengage de-energizes the motor and releases the latch.
func (c *Controller) disengage() {
	clog.Info().Msg("motor off")
	mmio.Clear(c.regs, board.Odr, board.Motor.Mask())
	mmio.Clear(c.regs, board.Odr, board.Latch.Mask())
	c.ps.Publish(Event{Kind: EventMotor, Pin: board.Motor.Name, On: false})
	c.ps.Publish(Event{Kind: EventLatch, Pin: board.Latch.Name, On: false})
}

// toggleDirection flips the software direction flag and mirrors the new
// value onto the direction output. The flag is never read back from
// hardware.
func (c *Controller) toggleDirection() {
	c.direction = !c.direction
	clog.Info().Bool("direction", c.direction).Msg("motor direction")
	if c.direction {
		mmio.Set(c.regs, board.Odr, board.Direction.Mask())
	} else {
		mmio.Clear(c.regs, board.Odr, board.Direction.Mask())
	}
	c.ps.Publish(Event{Kind: EventDirection, Pin: board.Direction.Name, On: c.direction})
}
