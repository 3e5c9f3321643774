package midi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

type timeFormat int

const (
	MetricalTF timeFormat = iota + 1
	TimeCodeTF
)

const headerDataSize = 6

var (
	headerChunkID = [4]byte{0x4D, 0x54, 0x68, 0x64}
	trackChunkID  = [4]byte{0x4D, 0x54, 0x72, 0x6B}

	// ErrMalformedContainer reports broken chunk structure: bad IDs, bad sizes, truncated chunks.
	ErrMalformedContainer = errors.New("malformed container")
	// ErrIO reports a failure of the underlying reader.
	ErrIO = errors.New("io failure")
	// ErrMalformedChannel reports a channel message that cannot be decoded.
	ErrMalformedChannel = errors.New("malformed channel message")
	// ErrMalformedMeta reports a meta or sysex event that cannot be decoded.
	ErrMalformedMeta = errors.New("malformed meta message")
)

var log = zap.NewNop()

// SetLogger replaces the package logger, which is a no-op by default.
func SetLogger(l *zap.Logger) {
	log = l
}

type Decoder struct {
	File

	r             io.ReadSeeker
	currentTrack  *Track
	runningStatus uint8
	offset        int64
	// end offset of the track chunk being parsed
	trackEnd int64
}

// Decode reads the whole file. On error the tracks and events decoded so far stay in d.Tracks.
func (d *Decoder) Decode() error {
	if _, err := d.r.Seek(0, io.SeekStart); err != nil {
		return d.fail(ErrIO, err)
	}

	d.offset = 0
	d.File = File{}

	if err := d.parseHeader(); err != nil {
		return err
	}

	for {
		id, size, err := d.IDnSize()
		if err == io.EOF {
			break
		}
		if err != nil {
			return d.fail(ErrMalformedContainer, err)
		}

		if id != trackChunkID {
			log.Debug("skip chunk", zap.String("id", string(id[:])), zap.Uint32("size", size))
			if err := d.skip(int64(size)); err != nil {
				return d.fail(ErrMalformedContainer, err)
			}
			continue
		}

		if err := d.parseTrack(size); err != nil {
			return err
		}
	}

	if len(d.Tracks) != int(d.NumTracks) {
		log.Debug("track count mismatch", zap.Uint16("header", d.NumTracks), zap.Int("found", len(d.Tracks)))
	}

	return nil
}

func (d *Decoder) parseHeader() error {
	var code [4]byte
	if err := d.read(&code); err != nil {
		return d.fail(ErrMalformedContainer, err)
	}

	if code != headerChunkID {
		return fmt.Errorf("%w - expected header chunk ID %v, got %v", ErrMalformedContainer, headerChunkID, code)
	}

	var header struct {
		Size      uint32
		Format    uint16
		NumTracks uint16
		Division  uint16
	}
	if err := d.read(&header); err != nil {
		return d.fail(ErrMalformedContainer, err)
	}

	if header.Size < headerDataSize {
		return fmt.Errorf("%w - expected header size to be at least %d, was %d", ErrMalformedContainer, headerDataSize, header.Size)
	}

	if err := d.skip(int64(header.Size - headerDataSize)); err != nil {
		return d.fail(ErrMalformedContainer, err)
	}

	d.Format = header.Format
	d.NumTracks = header.NumTracks

	if (header.Division & 0x8000) == 0 {
		d.TicksPerQuarterNote = header.Division & 0x7FFF
		d.TimeFormat = MetricalTF
	} else {
		d.TimeFormat = TimeCodeTF
	}

	log.Debug("header",
		zap.Uint16("format", d.Format),
		zap.Uint16("tracks", d.NumTracks),
		zap.Uint16("division", header.Division))

	return nil
}

func (d *Decoder) parseTrack(size uint32) error {
	d.currentTrack = new(Track)
	d.Tracks = append(d.Tracks, d.currentTrack)
	d.runningStatus = 0

	end := d.offset + int64(size)
	d.trackEnd = end

	for d.offset < end {
		done, err := d.parseEvent()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}

	if d.offset > end {
		return fmt.Errorf("%w - track %d overruns its chunk by %d bytes", ErrMalformedContainer, len(d.Tracks)-1, d.offset-end)
	}

	if d.offset < end {
		if err := d.skip(end - d.offset); err != nil {
			return d.fail(ErrMalformedContainer, err)
		}
	}

	log.Debug("track", zap.Int("index", len(d.Tracks)-1), zap.Int("events", len(d.currentTrack.Events)))

	return nil
}

// parseEvent reads one event and reports whether it was the end of the track.
func (d *Decoder) parseEvent() (bool, error) {
	delta, err := d.varLen()
	if err != nil {
		return false, d.fail(ErrMalformedContainer, err)
	}

	// status byte give us the msg type and channel.
	statusByte, err := d.readByte()
	if err != nil {
		return false, d.fail(ErrMalformedContainer, err)
	}

	switch {
	case statusByte == 0xFF:
		d.runningStatus = 0
		return d.parseMetaMsg(delta)

	case statusByte == 0xF0 || statusByte == 0xF7:
		d.runningStatus = 0
		return false, d.parseSysEx(delta, statusByte)

	case statusByte > 0xF0:
		return false, fmt.Errorf("%w - system message %#x at offset %d is not allowed in a file", ErrMalformedChannel, statusByte, d.offset-1)
	}

	msg := make(ChannelMessage, 0, 3)

	if statusByte&0x80 == 0 {
		if !isVoiceMsgType(d.runningStatus >> 4) {
			return false, fmt.Errorf("%w - data byte %#x at offset %d without running status", ErrMalformedChannel, statusByte, d.offset-1)
		}
		msg = append(msg, d.runningStatus, statusByte)
	} else {
		d.runningStatus = statusByte
		msg = append(msg, statusByte)
	}

	for len(msg) < 1+dataLen(msg.Status()) {
		b, err := d.uint7()
		if err != nil {
			return false, d.fail(ErrMalformedChannel, err)
		}
		msg = append(msg, b)
	}

	d.currentTrack.Events = append(d.currentTrack.Events, TrackEvent{Delta: delta, Payload: msg})

	return false, nil
}

func (d *Decoder) parseMetaMsg(delta uint32) (bool, error) {
	metaType, err := d.readByte()
	if err != nil {
		return false, d.fail(ErrMalformedMeta, err)
	}

	data, err := d.varLenData()
	if err != nil {
		return false, d.fail(ErrMalformedMeta, err)
	}

	meta := MetaMessage{Type: metaType, Data: data}

	if metaType == MetaTempo {
		tempo, ok := meta.Tempo()
		if !ok {
			return false, fmt.Errorf("%w - tempo event with %d data bytes", ErrMalformedMeta, len(data))
		}
		if d.Tempo == 0 {
			d.Tempo = tempo
		}
	}

	d.currentTrack.Events = append(d.currentTrack.Events, TrackEvent{Delta: delta, Payload: meta})

	return metaType == MetaEndOfTrack, nil
}

func (d *Decoder) parseSysEx(delta uint32, status uint8) error {
	data, err := d.varLenData()
	if err != nil {
		return d.fail(ErrMalformedMeta, err)
	}

	msg := append(SysExMessage{status}, data...)
	d.currentTrack.Events = append(d.currentTrack.Events, TrackEvent{Delta: delta, Payload: msg})

	return nil
}

// fail categorises a read error: truncated data is reported as kind, anything else as ErrIO.
func (d *Decoder) fail(kind error, err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w - unexpected end of data at offset %d", kind, d.offset)
	}
	if errors.Is(err, errVarLenTooLong) || errors.Is(err, errNotDataByte) || errors.Is(err, errDataTooLong) {
		return fmt.Errorf("%w - %v at offset %d", kind, err, d.offset)
	}
	return fmt.Errorf("%w - %v", ErrIO, err)
}

func (d *Decoder) read(v interface{}) error {
	if err := binary.Read(d.r, binary.BigEndian, v); err != nil {
		return err
	}
	d.offset += int64(binary.Size(v))
	return nil
}

func NewDecoder(r io.ReadSeeker) *Decoder {
	return &Decoder{r: r, offset: 0}
}
