package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hatchctl/board"
	"hatchctl/circularbuffer"
	"hatchctl/controller"
	"hatchctl/mmio"
)

/////////////////////
// Response helpers

func RespondInternalServiceError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}

func RespondNotFoundError(w http.ResponseWriter, body string) {
	w.WriteHeader(http.StatusNotFound)
	if body == "" {
		body = "Not found"
	}
	RespondText(w, body)
}

func RespondConflict(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusConflict)
	RespondText(w, message)
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	RespondText(w, message)
}

func RespondText(w http.ResponseWriter, body string) {
	w.Write([]byte(body))
}

func RespondJSON(w http.ResponseWriter, body any) {
	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		RespondInternalServiceError(w, err)
	}
}

/////////////////////
// Panel

const historySize = 64

// Panel is the host-side view of the device: it reads the register file to
// answer state queries, injects input bits into the simulated device, and
// relays controller events to clients. It mirrors the GUI that ships with
// the emulator.
type Panel struct {
	regs    mmio.RegisterFile
	sim     *mmio.Mem // nil when running on real hardware
	ctrl    *controller.Controller
	history *circularbuffer.CircularBuffer[controller.Event]
}

func NewPanel(regs mmio.RegisterFile, sim *mmio.Mem, ctrl *controller.Controller) *Panel {
	return &Panel{
		regs:    regs,
		sim:     sim,
		ctrl:    ctrl,
		history: circularbuffer.New[controller.Event](historySize),
	}
}

// Watch accumulates controller events into the history buffer until the
// context is cancelled.
func (p *Panel) Watch(ctx context.Context) {
	unsub, ch := p.ctrl.Subscribe()
	defer unsub()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			p.history.Push(e)
		}
	}
}

// PanelState is one JSON snapshot of the device, read straight from the
// registers.
type PanelState struct {
	Leds      []bool          `json:"leds"`
	Motor     bool            `json:"motor"`
	Latch     bool            `json:"latch"`
	Direction bool            `json:"direction"`
	Inputs    map[string]bool `json:"inputs"`
	Pressure  uint32          `json:"pressure"`
}

func (p *Panel) State() PanelState {
	odr := p.regs.Read(board.Odr)
	idr := p.regs.Read(board.Idr)

	leds := make([]bool, len(board.Leds))
	for i, led := range board.Leds {
		leds[i] = odr&led.Mask() != 0
	}

	inputs := make(map[string]bool, len(board.Inputs))
	for _, in := range board.Inputs {
		inputs[in.Name] = idr&in.Mask() != 0
	}

	return PanelState{
		Leds:      leds,
		Motor:     odr&board.Motor.Mask() != 0,
		Latch:     odr&board.Latch.Mask() != 0,
		Direction: odr&board.Direction.Mask() != 0,
		Inputs:    inputs,
		Pressure:  board.PressureValue(idr),
	}
}

// SetInput flips an input bit on the simulated device. Returns false if
// inputs are physical (gpio build) and cannot be injected.
func (p *Panel) SetInput(pin board.Pin, state bool) bool {
	if p.sim == nil {
		return false
	}
	if state {
		p.sim.SetBits(board.Idr, pin.Mask())
	} else {
		p.sim.ClearBits(board.Idr, pin.Mask())
	}
	return true
}

func NewRouter(panel *Panel) chi.Router {
	r := chi.NewRouter()
	r.Use(LoggerMiddleware(&log.Logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		tmpl, err := GetIndexTemplate()
		if err != nil {
			RespondInternalServiceError(w, err)
			return
		}
		tmpl.Execute(w, panel.State())
	})

	r.Get("/api/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Cache-Control", "no-cache, no-store")
		RespondJSON(w, panel.State())
	})

	r.Post("/api/inputs/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		pin, ok := board.InputByName(name)
		if !ok {
			RespondNotFoundError(w, "no such input")
			return
		}

		var state bool
		switch r.URL.Query().Get("state") {
		case "1", "true":
			state = true
		case "0", "false":
			state = false
		default:
			RespondBadRequest(w, "state must be 0 or 1")
			return
		}

		if !panel.SetInput(pin, state) {
			RespondConflict(w, "inputs are physical on this build")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/api/history", func(w http.ResponseWriter, r *http.Request) {
		events := panel.history.Snapshot()
		if events == nil {
			events = []controller.Event{}
		}
		RespondJSON(w, events)
	})

	r.Get("/api/events", createWebsocketHandler(panel))

	return r
}

func StartServer(config *Config, panel *Panel) error {
	address := config.Addr()
	log.Info().Str("listen", address).Msg("launching front panel")
	return http.ListenAndServe(address, NewRouter(panel))
}
