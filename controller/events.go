package controller

// EventKind identifies what a controller event reports.
type EventKind string

const (
	EventLed        EventKind = "led"
	EventMotor      EventKind = "motor"
	EventLatch      EventKind = "latch"
	EventDirection  EventKind = "direction"
	EventDoorOpened EventKind = "door_opened"
	EventDoorClosed EventKind = "door_closed"
)

// Event is a state transition announced by the control loop. The loop
// publishes and forgets; consumers (front panel, recorder) keep up or lose
// messages.
type Event struct {
	Kind EventKind `json:"kind"`
	// Pin names the output that changed, for led/motor/latch/direction.
	Pin string `json:"pin,omitempty"`
	// On is the new level of that output.
	On bool `json:"on,omitempty"`
	// Pressure carries the decoded 3-bit pressure-sensor value on
	// door_closed events.
	Pressure uint32 `json:"pressure,omitempty"`
}
