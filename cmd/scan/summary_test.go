package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garik-/smfplay/pkg/notes"
)

var oneTrack = []byte{
	'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0, 96,
	'M', 'T', 'r', 'k', 0, 0, 0, 16,
	0x00, 0x90, 0x3C, 0x64,
	0x60, 0x80, 0x3C, 0x00,
	0x00, 0x92, 0x40, 0x64,
	0x00, 0xFF, 0x2F, 0x00,
}

func writeFiles(t *testing.T, files map[string][]byte) <-chan string {
	t.Helper()
	dir := t.TempDir()

	names := make([]string, 0, len(files))
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0644))
		names = append(names, path)
	}

	paths := make(chan string, len(names))
	for _, name := range names {
		paths <- name
	}
	close(paths)
	return paths
}

func TestDecodeFile(t *testing.T) {
	paths := writeFiles(t, map[string][]byte{"a.mid": oneTrack})

	r := decodeFile(<-paths)
	require.NoError(t, r.err)
	require.NoError(t, r.decodeErr)
	require.Len(t, r.notes, 3)
	assert.Equal(t, uint64(96), r.notes[2].Time)

	r = decodeFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, r.err)
}

func TestNewSummary(t *testing.T) {
	paths := writeFiles(t, map[string][]byte{
		"a.mid":       oneTrack,
		"b.mid":       oneTrack,
		"partial.mid": oneTrack[:14+8+5],
		"text.mid":    []byte("not a midi file"),
	})

	s := newSummary(context.Background(), paths, 2)

	require.Len(t, s.files, 4)
	assert.Equal(t, 0, s.failed)

	assert.Equal(t, "a.mid", filepath.Base(s.files[0].name))
	assert.Equal(t, 3, s.files[0].notes)
	assert.Equal(t, uint64(96), s.files[0].ticks)
	assert.NoError(t, s.files[0].decodeErr)

	partial := s.files[2]
	assert.Equal(t, "partial.mid", filepath.Base(partial.name))
	assert.Error(t, partial.decodeErr)
	assert.Equal(t, 1, partial.notes)

	text := s.files[3]
	assert.Error(t, text.decodeErr)
	assert.Equal(t, 0, text.notes)

	// two full files and one partial note on
	assert.Equal(t, 3, s.channels[0][notes.NoteOn])
	assert.Equal(t, 2, s.channels[0][notes.NoteOff])
	assert.Equal(t, 2, s.channels[2][notes.NoteOn])
}

func TestSummary_Write(t *testing.T) {
	paths := writeFiles(t, map[string][]byte{"a.mid": oneTrack})
	s := newSummary(context.Background(), paths, 1)

	var w bytes.Buffer
	s.write(&w)

	assert.Contains(t, w.String(), "a.mid: tracks 1, notes 3, ticks 96, ok\n")
	assert.Contains(t, w.String(), "channel 1: note on 1, note off 1\n")
	assert.Contains(t, w.String(), "channel 3: note on 1, note off 0\n")
	assert.NotContains(t, w.String(), "failed")
}
