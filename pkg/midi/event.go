package midi

const (
	MetaEndOfTrack uint8 = 0x2F
	MetaTempo      uint8 = 0x51

	// DefaultTempo is the SMF default of 120 bpm in microseconds per quarter note.
	DefaultTempo uint32 = 500000
)

// Payload is one of ChannelMessage, MetaMessage or SysExMessage.
type Payload interface {
	payload()
}

// ChannelMessage holds the raw bytes of a channel voice message with running status expanded:
// status byte first, then one or two data bytes.
type ChannelMessage []byte

func (ChannelMessage) payload() {}

func (m ChannelMessage) Status() uint8 {
	if len(m) == 0 {
		return 0
	}
	return m[0]
}

type MetaMessage struct {
	Type uint8
	Data []byte
}

func (MetaMessage) payload() {}

// Tempo returns microseconds per quarter note of a set-tempo meta event.
func (m MetaMessage) Tempo() (uint32, bool) {
	if m.Type != MetaTempo || len(m.Data) != 3 {
		return 0, false
	}
	return uint32(m.Data[0])<<16 | uint32(m.Data[1])<<8 | uint32(m.Data[2]), true
}

// SysExMessage is the raw data of an F0 or F7 event, status included.
type SysExMessage []byte

func (SysExMessage) payload() {}

type TrackEvent struct {
	Delta   uint32
	Payload Payload
}

type Track struct {
	Events []TrackEvent
}

// File is the decoded content of a Standard MIDI File.
type File struct {
	Format              uint16
	NumTracks           uint16
	TicksPerQuarterNote uint16
	TimeFormat          timeFormat
	// Tempo of the first set-tempo event, 0 when the file has none.
	Tempo  uint32
	Tracks []*Track
}

// MicrosPerQuarterNote falls back to DefaultTempo when the file never sets one.
func (f *File) MicrosPerQuarterNote() uint32 {
	if f.Tempo == 0 {
		return DefaultTempo
	}
	return f.Tempo
}

func (f *File) EventCount() int {
	n := 0
	for _, track := range f.Tracks {
		n += len(track.Events)
	}
	return n
}
