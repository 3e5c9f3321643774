package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/Garik-/smfplay/pkg/midi"
	"github.com/Garik-/smfplay/pkg/notes"
)

type result struct {
	name  string
	file  *midi.File
	notes []notes.NoteEvent
	// decodeErr is kept apart from err: a file that failed to decode still has its partial events.
	decodeErr error
	err       error
}

func decodeFile(name string) *result {
	out := &result{name: name, file: &midi.File{}}
	f, err := os.Open(name)
	if err != nil {
		out.err = err
		return out
	}

	defer f.Close()

	decoder := midi.NewDecoder(f)
	out.decodeErr = decoder.Decode()
	out.file = &decoder.File

	out.notes, err = notes.Extract(notes.Flatten(midi.Concat(out.file.Tracks)))
	if err != nil {
		out.err = fmt.Errorf("extract: %w", err)
	}
	return out
}

func decodeWorker(ctx context.Context, paths <-chan string, cntRoutines int) (<-chan *result, <-chan struct{}) {
	log := decoderLog.Named("decodeWorker")
	out := make(chan *result)
	done := make(chan struct{}, 1)

	go func() {
		var wg sync.WaitGroup
		goroutines := make(chan struct{}, cntRoutines)

	loop:
		for path := range paths {
			select {
			case goroutines <- struct{}{}:
			case <-ctx.Done():
				log.Debug("context done")
				break loop
			}
			wg.Add(1)
			go func(ctx context.Context, path string, goroutines <-chan struct{}, out chan<- *result, wg *sync.WaitGroup) {
				defer wg.Done()

				select {
				case out <- decodeFile(path):
				case <-ctx.Done():
					log.Debug("decodeFile context done", zap.String("path", path))
				}
				<-goroutines

			}(ctx, path, goroutines, out, &wg)
		}

		wg.Wait()
		close(goroutines)
		close(out)

		done <- struct{}{}
		close(done)
	}()

	return out, done
}
