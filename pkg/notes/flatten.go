package notes

import (
	"github.com/Garik-/smfplay/pkg/midi"
)

// TimedMessage is a channel message with its delta time.
type TimedMessage struct {
	Delta uint64
	Data  []byte
}

// Flattener keeps the channel messages of a track event stream.
type Flattener struct {
	// CarryDelta adds the delta of a dropped meta or sysex event to the next kept message.
	// Off by default: dropped events lose their delta.
	CarryDelta bool
}

func (f Flattener) Flatten(events []midi.TrackEvent) []TimedMessage {
	messages := make([]TimedMessage, 0, len(events))

	var carried uint64
	for _, ev := range events {
		msg, ok := ev.Payload.(midi.ChannelMessage)
		if !ok {
			if f.CarryDelta {
				carried += uint64(ev.Delta)
			}
			continue
		}

		messages = append(messages, TimedMessage{
			Delta: carried + uint64(ev.Delta),
			Data:  []byte(msg),
		})
		carried = 0
	}

	return messages
}

// Flatten drops every non channel message together with its delta.
func Flatten(events []midi.TrackEvent) []TimedMessage {
	return Flattener{}.Flatten(events)
}
