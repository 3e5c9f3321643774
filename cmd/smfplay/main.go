package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/zap"

	"github.com/Garik-/smfplay/pkg/port"
)

var (
	strategyFlag = flag.String("strategy", strategyFaithful, "Playback strategy: faithful plays the file, scale plays a test scale")
	timingFlag   = flag.String("timing", timingHeuristic, "Timing of the faithful strategy: heuristic or tempo")
	tickFlag     = flag.Duration("tick", 0, "Wall-clock length of one tick for the heuristic timing (default 2ms)")
	decoderFlag  = flag.String("decoder", decoderBuiltin, "SMF decoder: builtin or gomidi")
	tracksFlag   = flag.String("tracks", tracksConcat, "How tracks are combined: concat or merge")
	trackFlag    = flag.Int("track", -1, "Play only this track")
	carryFlag    = flag.Bool("carry-meta-delta", false, "Add the delta of dropped meta and sysex events to the next message")
	portFlag     = flag.Int("port", -1, "Output port number, asked on the console when several are available")
	listFlag     = flag.Bool("list", false, "List the output ports and exit")
	loopsFlag    = flag.Int("loops", 0, "Passes of the scale strategy, 0 plays until interrupted")
	dumpFlag     = flag.Bool("dump", false, "Log every decoded event")
	debugFlag    = flag.Bool("debug", false, "Debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <file.mid>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger, err := newLogger(*debugFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	enableDebugLogging(logger)

	if *listFlag {
		err := port.List(port.NewSystem(), os.Stdout)
		gomidi.CloseDriver()
		if err != nil {
			logger.Fatal("list ports", zap.Error(err))
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, flag.Arg(0)); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("playback failed", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, name string) error {
	if err := checkDecoder(*decoderFlag); err != nil {
		return err
	}

	file, err := loadFile(name, *decoderFlag)
	if err != nil {
		log.Warn("decode", zap.String("file", name), zap.Error(err))
	}

	log.Info("file",
		zap.String("name", name),
		zap.Uint16("format", file.Format),
		zap.Int("tracks", len(file.Tracks)),
		zap.Uint16("ticksPerQuarterNote", file.TicksPerQuarterNote),
		zap.Uint32("microsPerQuarterNote", file.MicrosPerQuarterNote()),
		zap.Int("events", file.EventCount()))

	events, err := trackEvents(file, *tracksFlag, *trackFlag)
	if err != nil {
		return err
	}

	if *dumpFlag {
		dump(log, events)
	}

	noteEvents, err := extract(events, *carryFlag)
	if err != nil {
		return err
	}

	log.Info("notes", zap.Int("events", len(events)), zap.Int("notes", len(noteEvents)))

	timing, err := newTiming(*timingFlag, *tickFlag, file)
	if err != nil {
		return err
	}

	strategy, err := newStrategy(*strategyFlag, timing, *loopsFlag)
	if err != nil {
		return err
	}

	out := port.NewSystem()
	defer gomidi.CloseDriver()

	i := *portFlag
	if i >= 0 {
		i, err = port.Check(out, i)
	} else {
		i, err = port.Select(out, os.Stdin, os.Stdout)
	}
	if err != nil {
		return err
	}

	portName, err := out.Name(i)
	if err != nil {
		return err
	}

	log.Info("opening connection", zap.Int("port", i), zap.String("name", portName))

	conn, err := out.Connect(i)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn("close connection", zap.Error(err))
		}
		log.Info("connection closed")
	}()

	log.Info("connection open, listen!", zap.String("strategy", *strategyFlag))

	report, err := strategy.Play(ctx, conn, noteEvents)

	log.Info("playback finished", zap.Int("sent", report.Sent), zap.Int("failed", report.Failed))
	for _, res := range report.Failures() {
		log.Debug("failed send", zap.Int("index", res.Index), zap.Uint64("time", res.Event.Time), zap.Error(res.Err))
	}

	return err
}
