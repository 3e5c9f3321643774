package player

import (
	"context"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"

	"github.com/Garik-/smfplay/pkg/notes"
)

const (
	DefaultScaleUnit     = 150 * time.Millisecond
	DefaultScaleVelocity = 0x64
)

type scaleStep struct {
	key   uint8
	units int
}

var scale = []scaleStep{
	{66, 4}, {65, 3}, {63, 1}, {61, 6}, {59, 2}, {58, 4}, {56, 4}, {54, 4},
}

// ScaleTest ignores the decoded events and plays a fixed scale on channel 0, to check that
// the output port makes sound. Each step is a note on, a sleep and a note off.
type ScaleTest struct {
	// Loops is the number of passes over the scale, 0 means until ctx is done.
	Loops    int
	Unit     time.Duration
	Velocity uint8
	Sleeper  Sleeper
}

func (s *ScaleTest) Play(ctx context.Context, sink Sink, _ []notes.NoteEvent) (*Report, error) {
	log := log.Named("scale")

	unit := s.Unit
	if unit <= 0 {
		unit = DefaultScaleUnit
	}
	velocity := s.Velocity
	if velocity == 0 {
		velocity = DefaultScaleVelocity
	}
	sleeper := s.Sleeper
	if sleeper == nil {
		sleeper = WallClock
	}

	report := &Report{}
	index := 0

	send := func(msg gomidi.Message) {
		note, _ := notes.Classify(msg[0])
		ev := notes.NoteEvent{Note: note, Key: msg[1], Velocity: msg[2]}
		err := sink.Send(msg)
		report.add(index, ev, err)
		if err != nil {
			log.Debug("send failed", zap.Stringer("msg", msg), zap.Error(err))
		}
		index++
	}

	for loop := 0; s.Loops == 0 || loop < s.Loops; loop++ {
		for _, step := range scale {
			send(gomidi.NoteOn(0, step.key, velocity))

			err := sleeper.Sleep(ctx, time.Duration(step.units)*unit)

			send(gomidi.NoteOff(0, step.key))

			if err != nil {
				return report, err
			}
		}
	}

	return report, nil
}
