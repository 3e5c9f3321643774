package player

import (
	"context"
	"math"
	"time"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Garik-/smfplay/pkg/midi"
	"github.com/Garik-/smfplay/pkg/notes"
)

// DefaultTickDuration is the wall-clock length of one tick in the Heuristic timing.
const DefaultTickDuration = 2 * time.Millisecond

// Timing converts an event's delta into the wait before it is sent.
type Timing interface {
	Delay(ev notes.NoteEvent) time.Duration
}

// Heuristic waits a fixed duration per tick, regardless of the file's tempo.
type Heuristic struct {
	PerTick time.Duration
}

func (h Heuristic) Delay(ev notes.NoteEvent) time.Duration {
	perTick := h.PerTick
	if perTick <= 0 {
		perTick = DefaultTickDuration
	}
	return time.Duration(ev.Delta) * perTick
}

// TempoClock derives the wait from the file's resolution and a single tempo.
type TempoClock struct {
	TicksPerQuarterNote uint16
	// MicrosPerQuarterNote of zero means midi.DefaultTempo.
	MicrosPerQuarterNote uint32
}

func (c TempoClock) BPM() float64 {
	tempo := c.MicrosPerQuarterNote
	if tempo == 0 {
		tempo = midi.DefaultTempo
	}
	return 60000000 / float64(tempo)
}

func (c TempoClock) Delay(ev notes.NoteEvent) time.Duration {
	if c.TicksPerQuarterNote == 0 {
		return Heuristic{}.Delay(ev)
	}

	delta := ev.Delta
	if delta > math.MaxUint32 {
		delta = math.MaxUint32
	}
	return smf.MetricTicks(c.TicksPerQuarterNote).Duration(c.BPM(), uint32(delta))
}

// Sleeper blocks for a duration or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type wallClock struct{}

func (wallClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WallClock sleeps in real time.
var WallClock Sleeper = wallClock{}
