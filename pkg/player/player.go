package player

import (
	"context"

	"go.uber.org/zap"

	"github.com/Garik-/smfplay/pkg/notes"
)

var log = zap.NewNop()

// SetLogger replaces the package logger, which is a no-op by default.
func SetLogger(l *zap.Logger) {
	log = l
}

// Sink receives raw MIDI messages.
type Sink interface {
	Send(msg []byte) error
}

// Strategy plays note events to a sink.
// The sink is owned by the strategy for the duration of Play; closing it is up to the caller.
type Strategy interface {
	Play(ctx context.Context, sink Sink, events []notes.NoteEvent) (*Report, error)
}

// SendResult is the outcome of a single send.
type SendResult struct {
	Index int
	Event notes.NoteEvent
	Err   error
}

// Report collects the per-event send results of a playback run.
type Report struct {
	Results []SendResult
	Sent    int
	Failed  int
}

func (r *Report) add(index int, ev notes.NoteEvent, err error) {
	r.Results = append(r.Results, SendResult{Index: index, Event: ev, Err: err})
	if err != nil {
		r.Failed++
		return
	}
	r.Sent++
}

// Failures returns the results whose send failed.
func (r *Report) Failures() []SendResult {
	var out []SendResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
