package player

import (
	"context"

	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"

	"github.com/Garik-/smfplay/pkg/notes"
)

// Faithful plays the events as the file encodes them: wait for the event's delay, send it once.
// A failed send is recorded in the report and playback goes on; the wait is never skipped.
type Faithful struct {
	Timing  Timing
	Sleeper Sleeper
}

func (f *Faithful) Play(ctx context.Context, sink Sink, events []notes.NoteEvent) (*Report, error) {
	log := log.Named("faithful")

	timing := f.Timing
	if timing == nil {
		timing = Heuristic{}
	}
	sleeper := f.Sleeper
	if sleeper == nil {
		sleeper = WallClock
	}

	report := &Report{Results: make([]SendResult, 0, len(events))}

	for i, ev := range events {
		if err := sleeper.Sleep(ctx, timing.Delay(ev)); err != nil {
			log.Debug("stopped", zap.Int("index", i), zap.Error(err))
			return report, err
		}

		msg := ev.Bytes()
		err := sink.Send(msg)
		report.add(i, ev, err)

		if err != nil {
			log.Debug("send failed", zap.Int("index", i), zap.Stringer("msg", gomidi.Message(msg)), zap.Error(err))
			continue
		}

		log.Debug("sent",
			zap.Int("index", i),
			zap.Stringer("msg", gomidi.Message(msg)),
			zap.Uint64("time", ev.Time),
			zap.Uint64("delta", ev.Delta))
	}

	return report, nil
}
