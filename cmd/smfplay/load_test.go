package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garik-/smfplay/pkg/midi"
	"github.com/Garik-/smfplay/pkg/notes"
	"github.com/Garik-/smfplay/pkg/player"
)

// format 1, two tracks, 96 ticks per quarter note
var twoTracks = []byte{
	'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 1, 0, 2, 0, 96,
	'M', 'T', 'r', 'k', 0, 0, 0, 19,
	0x00, 0xFF, 0x51, 0x03, 0x0F, 0x42, 0x40,
	0x00, 0x90, 0x3C, 0x64,
	0x60, 0x80, 0x3C, 0x00,
	0x00, 0xFF, 0x2F, 0x00,
	'M', 'T', 'r', 'k', 0, 0, 0, 12,
	0x30, 0x91, 0x30, 0x50,
	0x30, 0x81, 0x30, 0x00,
	0x00, 0xFF, 0x2F, 0x00,
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.mid")
	require.NoError(t, os.WriteFile(name, data, 0644))
	return name
}

func times(events []notes.NoteEvent) []uint64 {
	out := make([]uint64, len(events))
	for i, ev := range events {
		out[i] = ev.Time
	}
	return out
}

func TestLoadFile(t *testing.T) {
	name := writeFile(t, twoTracks)

	file, err := loadFile(name, decoderBuiltin)
	require.NoError(t, err)
	assert.Len(t, file.Tracks, 2)
	assert.Equal(t, uint32(1000000), file.MicrosPerQuarterNote())

	_, err = loadFile(name, "rimd")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, midi.ErrIO))
}

func TestCheckDecoder(t *testing.T) {
	assert.NoError(t, checkDecoder(decoderBuiltin))
	assert.NoError(t, checkDecoder(decoderGomidi))

	err := checkDecoder("rimd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rimd")

	// rejected before the file is opened
	_, err = loadFile(filepath.Join(t.TempDir(), "missing.mid"), "rimd")
	require.Error(t, err)
	assert.False(t, errors.Is(err, midi.ErrIO))
}

func TestLoadFile_Missing(t *testing.T) {
	file, err := loadFile(filepath.Join(t.TempDir(), "missing.mid"), decoderBuiltin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, midi.ErrIO))
	assert.Empty(t, file.Tracks)
}

func TestLoadFile_Partial(t *testing.T) {
	name := writeFile(t, twoTracks[:14+8+11+1])

	file, err := loadFile(name, decoderBuiltin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, midi.ErrMalformedContainer))

	events, err := trackEvents(file, tracksConcat, -1)
	require.NoError(t, err)
	noteEvents, err := extract(events, false)
	require.NoError(t, err)
	assert.Len(t, noteEvents, 1)
}

func TestTrackEvents(t *testing.T) {
	file, err := loadFile(writeFile(t, twoTracks), decoderBuiltin)
	require.NoError(t, err)

	concat, err := trackEvents(file, tracksConcat, -1)
	require.NoError(t, err)
	concatNotes, err := extract(concat, false)
	require.NoError(t, err)

	merged, err := trackEvents(file, tracksMerge, -1)
	require.NoError(t, err)
	mergedNotes, err := extract(merged, false)
	require.NoError(t, err)

	require.Len(t, concatNotes, 4)
	require.Len(t, mergedNotes, 4)

	// chained: the second track starts after the first one ended
	assert.Equal(t, []uint64{0, 96, 144, 192}, times(concatNotes))
	// merged: both tracks start at zero
	assert.Equal(t, []uint64{0, 48, 96, 96}, times(mergedNotes))
	assert.Equal(t, uint8(0x80), mergedNotes[2].Note.Status)

	single, err := trackEvents(file, tracksConcat, 1)
	require.NoError(t, err)
	assert.Len(t, single, 3)

	_, err = trackEvents(file, tracksConcat, 2)
	assert.Error(t, err)
	_, err = trackEvents(file, "shuffle", -1)
	assert.Error(t, err)
}

func TestNewTiming(t *testing.T) {
	file := &midi.File{TimeFormat: midi.MetricalTF, TicksPerQuarterNote: 96, Tempo: 1000000}

	timing, err := newTiming(timingHeuristic, time.Millisecond, file)
	require.NoError(t, err)
	assert.Equal(t, player.Heuristic{PerTick: time.Millisecond}, timing)

	timing, err = newTiming(timingTempo, 0, file)
	require.NoError(t, err)
	assert.Equal(t, player.TempoClock{TicksPerQuarterNote: 96, MicrosPerQuarterNote: 1000000}, timing)

	_, err = newTiming(timingTempo, 0, &midi.File{TimeFormat: midi.TimeCodeTF})
	assert.Error(t, err)

	_, err = newTiming("metronome", 0, file)
	assert.Error(t, err)
}

func TestNewStrategy(t *testing.T) {
	timing := player.Heuristic{}

	s, err := newStrategy(strategyFaithful, timing, 0)
	require.NoError(t, err)
	assert.Equal(t, &player.Faithful{Timing: timing}, s)

	s, err = newStrategy(strategyScale, timing, 3)
	require.NoError(t, err)
	assert.Equal(t, &player.ScaleTest{Loops: 3}, s)

	_, err = newStrategy("random", timing, 0)
	assert.Error(t, err)
}
