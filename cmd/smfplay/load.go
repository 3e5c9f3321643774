package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"

	"github.com/Garik-/smfplay/pkg/midi"
	"github.com/Garik-/smfplay/pkg/notes"
	"github.com/Garik-/smfplay/pkg/player"
)

const (
	decoderBuiltin = "builtin"
	decoderGomidi  = "gomidi"

	tracksConcat = "concat"
	tracksMerge  = "merge"

	timingHeuristic = "heuristic"
	timingTempo     = "tempo"

	strategyFaithful = "faithful"
	strategyScale    = "scale"
)

func checkDecoder(decoder string) error {
	switch decoder {
	case decoderBuiltin, decoderGomidi:
		return nil
	default:
		return fmt.Errorf("unknown decoder %q", decoder)
	}
}

// loadFile decodes name. A decode error comes back with whatever was decoded before it.
func loadFile(name string, decoder string) (*midi.File, error) {
	if err := checkDecoder(decoder); err != nil {
		return &midi.File{}, err
	}

	f, err := os.Open(name)
	if err != nil {
		return &midi.File{}, fmt.Errorf("%w - %v", midi.ErrIO, err)
	}
	defer f.Close()

	if decoder == decoderGomidi {
		return midi.ReadSMF(f)
	}

	d := midi.NewDecoder(f)
	err = d.Decode()
	return &d.File, err
}

// trackEvents picks the events to play: one track when track >= 0, otherwise all of them
// chained or merged by time.
func trackEvents(file *midi.File, mode string, track int) ([]midi.TrackEvent, error) {
	if track >= 0 {
		if track >= len(file.Tracks) {
			return nil, fmt.Errorf("track %d out of range, the file has %d", track, len(file.Tracks))
		}
		return file.Tracks[track].Events, nil
	}

	switch mode {
	case tracksConcat:
		return midi.Concat(file.Tracks), nil
	case tracksMerge:
		return midi.Merge(file.Tracks), nil
	default:
		return nil, fmt.Errorf("unknown tracks mode %q", mode)
	}
}

func newTiming(name string, perTick time.Duration, file *midi.File) (player.Timing, error) {
	switch name {
	case timingHeuristic:
		return player.Heuristic{PerTick: perTick}, nil
	case timingTempo:
		if file.TimeFormat != midi.MetricalTF {
			return nil, errors.New("tempo timing needs metrical time, the file uses time code")
		}
		return player.TempoClock{
			TicksPerQuarterNote:  file.TicksPerQuarterNote,
			MicrosPerQuarterNote: file.MicrosPerQuarterNote(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown timing %q", name)
	}
}

func newStrategy(name string, timing player.Timing, loops int) (player.Strategy, error) {
	switch name {
	case strategyFaithful:
		return &player.Faithful{Timing: timing}, nil
	case strategyScale:
		return &player.ScaleTest{Loops: loops}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

func dump(log *zap.Logger, events []midi.TrackEvent) {
	for i, ev := range events {
		switch p := ev.Payload.(type) {
		case midi.ChannelMessage:
			log.Info("event", zap.Int("index", i), zap.Uint32("delta", ev.Delta), zap.Stringer("msg", gomidi.Message(p)))
		case midi.MetaMessage:
			log.Info("event", zap.Int("index", i), zap.Uint32("delta", ev.Delta), zap.Uint8("meta", p.Type), zap.Binary("data", p.Data))
		case midi.SysExMessage:
			log.Info("event", zap.Int("index", i), zap.Uint32("delta", ev.Delta), zap.Binary("sysex", p))
		}
	}
}

func extract(events []midi.TrackEvent, carryDelta bool) ([]notes.NoteEvent, error) {
	messages := notes.Flattener{CarryDelta: carryDelta}.Flatten(events)
	return notes.Extract(messages)
}
