package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func noteOn(delta uint32, key uint8) TrackEvent {
	return TrackEvent{Delta: delta, Payload: ChannelMessage{0x90, key, 0x40}}
}

func TestConcat(t *testing.T) {
	a := &Track{Events: []TrackEvent{noteOn(0, 60), noteOn(10, 61)}}
	b := &Track{Events: []TrackEvent{noteOn(5, 62)}}

	events := Concat([]*Track{a, b})
	assert.Equal(t, []TrackEvent{noteOn(0, 60), noteOn(10, 61), noteOn(5, 62)}, events)

	assert.Empty(t, Concat(nil))
}

func TestMerge(t *testing.T) {
	conductor := &Track{Events: []TrackEvent{
		{Delta: 0, Payload: MetaMessage{Type: MetaTempo, Data: []byte{0x07, 0xA1, 0x20}}},
		{Delta: 30, Payload: MetaMessage{Type: MetaEndOfTrack}},
	}}
	melody := &Track{Events: []TrackEvent{noteOn(10, 60), noteOn(10, 62)}}
	bass := &Track{Events: []TrackEvent{noteOn(10, 36), noteOn(15, 38)}}

	events := Merge([]*Track{conductor, melody, bass})

	assert.Equal(t, []TrackEvent{
		conductor.Events[0],
		noteOn(10, 60),
		noteOn(0, 36),
		noteOn(10, 62),
		noteOn(5, 38),
		{Delta: 5, Payload: MetaMessage{Type: MetaEndOfTrack}},
	}, events)
}

func TestMerge_PreservesAbsoluteTime(t *testing.T) {
	tracks := []*Track{
		{Events: []TrackEvent{noteOn(7, 1), noteOn(0, 2), noteOn(100, 3)}},
		{Events: []TrackEvent{noteOn(3, 4), noteOn(50, 5)}},
		{},
	}

	var total uint64
	var last uint64
	for _, ev := range Merge(tracks) {
		total += uint64(ev.Delta)
		assert.GreaterOrEqual(t, total, last)
		last = total
	}
	assert.Equal(t, uint64(107), total)
}
