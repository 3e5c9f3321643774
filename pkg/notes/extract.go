package notes

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrShortMessage is returned for a message too short to be a note, or empty.
var ErrShortMessage = errors.New("short note message")

var log = zap.NewNop()

// SetLogger replaces the package logger, which is a no-op by default.
func SetLogger(l *zap.Logger) {
	log = l
}

type NoteEvent struct {
	Note ChannelNote
	// Time is the absolute time in ticks, including this event's delta.
	Time     uint64
	Delta    uint64
	Key      uint8
	Velocity uint8
}

// Bytes is the wire form of the event: status, key, velocity.
func (e NoteEvent) Bytes() []byte {
	return []byte{e.Note.Status, e.Key, e.Velocity}
}

// Step advances the running time by msg's delta and classifies it.
// The returned time is the new accumulator; ok is false when msg is not a note.
func Step(time uint64, msg TimedMessage) (next uint64, ev NoteEvent, ok bool, err error) {
	next = time + msg.Delta

	if len(msg.Data) == 0 {
		return next, ev, false, ErrShortMessage
	}

	note, ok := Classify(msg.Data[0])
	if !ok {
		return next, ev, false, nil
	}

	if len(msg.Data) < 3 {
		return next, ev, false, fmt.Errorf("%w: status %#x with %d bytes", ErrShortMessage, msg.Data[0], len(msg.Data))
	}

	return next, NoteEvent{
		Note:     note,
		Time:     next,
		Delta:    msg.Delta,
		Key:      msg.Data[1],
		Velocity: msg.Data[2],
	}, true, nil
}

// Extract folds Step over messages. On error it returns the events extracted before the bad message.
func Extract(messages []TimedMessage) ([]NoteEvent, error) {
	events := make([]NoteEvent, 0, len(messages))

	var time uint64
	for i, msg := range messages {
		var ev NoteEvent
		var ok bool
		var err error

		time, ev, ok, err = Step(time, msg)
		if err != nil {
			return events, fmt.Errorf("message %d: %w", i, err)
		}
		if !ok {
			continue
		}

		events = append(events, ev)
	}

	log.Debug("extract", zap.Int("messages", len(messages)), zap.Int("notes", len(events)), zap.Uint64("ticks", time))

	return events, nil
}
