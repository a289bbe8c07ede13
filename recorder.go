package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"hatchctl/controller"
)

var rlog zerolog.Logger

func init() {
	rlog = log.With().Str("component", "recorder").Logger()
}

const eventLogName = "events.log"

// Recorder persists controller events as JSON lines so door openings and
// motor transitions survive a restart of the host process.
type Recorder struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

func NewRecorder(fs afero.Fs, dataDir string) *Recorder {
	return &Recorder{
		fs:   fs,
		path: filepath.Join(dataDir, eventLogName),
		now:  time.Now,
	}
}

type eventRecord struct {
	Time time.Time `json:"time"`
	controller.Event
}

// Record appends one event. The file is opened per write; the loop emits a
// few events per second at most.
func (r *Recorder) Record(e controller.Event) error {
	if err := r.fs.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}

	f, err := r.fs.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(eventRecord{
		Time:  r.now(),
		Event: e,
	})
}

// Run consumes controller events until the context is cancelled. Write
// errors are logged, not fatal: recording is an observer, never a reason to
// stop the device.
func (r *Recorder) Run(ctx context.Context, events <-chan controller.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := r.Record(e); err != nil {
				rlog.Err(err).Msg("Failed to record event")
			}
		}
	}
}
