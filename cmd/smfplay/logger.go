package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Garik-/smfplay/pkg/midi"
	"github.com/Garik-/smfplay/pkg/notes"
	"github.com/Garik-/smfplay/pkg/player"
)

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func enableDebugLogging(l *zap.Logger) {
	midi.SetLogger(l.Named("midi"))
	notes.SetLogger(l.Named("notes"))
	player.SetLogger(l.Named("player"))
}
