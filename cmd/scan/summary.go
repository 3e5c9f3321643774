package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/Garik-/smfplay/pkg/notes"
)

type kindMap map[notes.NoteKind]int

// channel -> kind -> count
type channelMap map[uint8]kindMap

type fileSummary struct {
	name      string
	tracks    int
	notes     int
	ticks     uint64
	decodeErr error
}

type summary struct {
	files    []fileSummary
	channels channelMap
	failed   int
}

func newSummary(parent context.Context, paths <-chan string, cntRoutines int) *summary {
	log := summaryLog.Named("newSummary")
	ctx, cancel := context.WithCancel(parent)
	results, done := decodeWorker(ctx, paths, cntRoutines)

	defer func() {
		log.Debug("cancel")
		cancel()
		<-done // wait decodeWorker closed
	}()

	s := &summary{channels: make(channelMap)}

	for result := range results {
		if result.err != nil {
			log.Warn("skip", zap.String("name", result.name), zap.Error(result.err))
			s.failed++
			continue
		}

		if result.decodeErr != nil {
			log.Warn("partial", zap.String("name", result.name), zap.Error(result.decodeErr))
		}

		log.Debug("result", zap.String("name", result.name), zap.Int("tracks", len(result.file.Tracks)), zap.Int("notes", len(result.notes)))

		s.add(result)
	}

	sort.Slice(s.files, func(i, j int) bool {
		return s.files[i].name < s.files[j].name
	})

	return s
}

func (s *summary) add(r *result) {
	fs := fileSummary{
		name:      r.name,
		tracks:    len(r.file.Tracks),
		notes:     len(r.notes),
		decodeErr: r.decodeErr,
	}

	for _, ev := range r.notes {
		fs.ticks = ev.Time

		channel := ev.Note.Channel()
		if _, ok := s.channels[channel]; !ok {
			s.channels[channel] = make(kindMap)
		}
		s.channels[channel][ev.Note.Kind]++
	}

	s.files = append(s.files, fs)
}

func (s *summary) write(w io.Writer) {
	for _, f := range s.files {
		status := "ok"
		if f.decodeErr != nil {
			status = f.decodeErr.Error()
		}
		fmt.Fprintf(w, "%s: tracks %d, notes %d, ticks %d, %s\n", f.name, f.tracks, f.notes, f.ticks, status)
	}

	channels := make([]int, 0, len(s.channels))
	for ch := range s.channels {
		channels = append(channels, int(ch))
	}
	sort.Ints(channels)

	for _, ch := range channels {
		kinds := s.channels[uint8(ch)]
		fmt.Fprintf(w, "channel %d: note on %d, note off %d\n", ch+1, kinds[notes.NoteOn], kinds[notes.NoteOff])
	}

	if s.failed > 0 {
		fmt.Fprintf(w, "failed: %d\n", s.failed)
	}
}
