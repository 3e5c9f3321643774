package main

import (
	"go.uber.org/zap"

	"github.com/Garik-/smfplay/pkg/midi"
	"github.com/Garik-/smfplay/pkg/notes"
)

var decoderLog = zap.NewNop()
var summaryLog = zap.NewNop()

func enableDebugLogging(l *zap.Logger) {
	decoderLog = l
	summaryLog = l
	midi.SetLogger(l.Named("midi"))
	notes.SetLogger(l.Named("notes"))
}
