package midi

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/zap"
)

// ReadSMF decodes r with the gomidi smf reader and converts the result to a File.
func ReadSMF(r io.Reader) (*File, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		log.Debug("smf reader", zap.Error(err))
		err = fmt.Errorf("%w - %v", ErrMalformedContainer, err)
		if s == nil {
			return &File{}, err
		}
	}

	f := &File{
		Format:    s.Format(),
		NumTracks: uint16(len(s.Tracks)),
	}

	if ticks, ok := s.TimeFormat.(smf.MetricTicks); ok {
		f.TicksPerQuarterNote = uint16(ticks)
		f.TimeFormat = MetricalTF
	} else {
		f.TimeFormat = TimeCodeTF
	}

	for _, track := range s.Tracks {
		t := &Track{Events: make([]TrackEvent, 0, len(track))}

		for _, ev := range track {
			payload, err := convert([]byte(ev.Message))
			if err != nil {
				f.Tracks = append(f.Tracks, t)
				return f, err
			}

			if meta, ok := payload.(MetaMessage); ok && f.Tempo == 0 {
				if tempo, ok := meta.Tempo(); ok {
					f.Tempo = tempo
				}
			}

			t.Events = append(t.Events, TrackEvent{Delta: ev.Delta, Payload: payload})
		}

		f.Tracks = append(f.Tracks, t)
	}

	return f, err
}

func convert(raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w - empty message", ErrMalformedChannel)
	}

	switch {
	case raw[0] == 0xFF:
		if len(raw) < 3 {
			return nil, fmt.Errorf("%w - meta event of %d bytes", ErrMalformedMeta, len(raw))
		}
		l, n := decodeVarint(raw[2:])
		data := raw[2+n:]
		if int(l) != len(data) {
			return nil, fmt.Errorf("%w - meta length %d, got %d data bytes", ErrMalformedMeta, l, len(data))
		}
		return MetaMessage{Type: raw[1], Data: append([]byte(nil), data...)}, nil

	case raw[0] == 0xF0 || raw[0] == 0xF7:
		return append(SysExMessage(nil), raw...), nil

	case raw[0]&0x80 == 0 || raw[0] > 0xF0:
		return nil, fmt.Errorf("%w - unexpected status %#x", ErrMalformedChannel, raw[0])
	}

	if len(raw) != 1+dataLen(raw[0]) {
		return nil, fmt.Errorf("%w - status %#x with %d bytes", ErrMalformedChannel, raw[0], len(raw))
	}

	return append(ChannelMessage(nil), raw...), nil
}
