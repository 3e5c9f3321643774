package notes

import "fmt"

// Status byte ranges of note messages: high nibble is the message type, low nibble the channel.
const (
	NoteOffFirst uint8 = 0x80
	NoteOffLast  uint8 = 0x8F
	NoteOnFirst  uint8 = 0x90
	NoteOnLast   uint8 = 0x9F
)

type NoteKind uint8

const (
	NoteOff NoteKind = iota + 1
	NoteOn
)

func (k NoteKind) String() string {
	switch k {
	case NoteOff:
		return "off"
	case NoteOn:
		return "on"
	default:
		return fmt.Sprintf("NoteKind(%d)", uint8(k))
	}
}

// ChannelNote is a classified status byte.
type ChannelNote struct {
	Kind   NoteKind
	Status uint8
}

func (c ChannelNote) Channel() uint8 {
	return c.Status & 0x0F
}

// Classify maps a status byte to a note-on or note-off. ok is false for every other message.
func Classify(status uint8) (note ChannelNote, ok bool) {
	switch {
	case status >= NoteOffFirst && status <= NoteOffLast:
		return ChannelNote{Kind: NoteOff, Status: status}, true
	case status >= NoteOnFirst && status <= NoteOnLast:
		return ChannelNote{Kind: NoteOn, Status: status}, true
	default:
		return ChannelNote{}, false
	}
}
