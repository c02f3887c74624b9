// SPDX-License-Identifier: Unlicense OR MIT

// Command inputroute routes input from linux event devices or a
// replay file to an in-memory window stack.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"inputroute.org/backend/replay"
	"inputroute.org/config"
	"inputroute.org/io/event"
	"inputroute.org/io/router"
	"inputroute.org/script"
	"inputroute.org/shortcut"
	"inputroute.org/shortcut/dbusaccel"
	"inputroute.org/win/memspace"
)

var (
	configPath = flag.String("config", "", "configuration file (TOML)")
	replayPath = flag.String("replay", "", "replay JSON lines input from `file`, - for standard input")
	realtime   = flag.Bool("realtime", false, "replay with the recorded timing")
	useEvdev   = flag.Bool("evdev", false, "read linux event devices")
	scriptPath = flag.String("script", "", "Lua script registering shortcuts")
	outputs    = flag.String("outputs", "1920x1080", "comma separated output sizes, laid out left to right")
	verbose    = flag.Bool("v", false, "log routing decisions")
)

const mainUsage = `The inputroute command routes input events to an in-memory window stack.

Usage:

	inputroute [flags] -replay session.jsonl
	inputroute [flags] -evdev

The flags are:

`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, mainUsage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if err := mainErr(); err != nil {
		fmt.Fprintf(os.Stderr, "inputroute: %v\n", err)
		os.Exit(1)
	}
}

func mainErr() error {
	if *replayPath == "" && !*useEvdev {
		return errors.New("specify -replay or -evdev")
	}
	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if *verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	rects, err := parseOutputs(*outputs)
	if err != nil {
		return err
	}
	space := memspace.New(rects...)
	seat := memspace.NewSeat()
	session := new(memspace.Session)

	d := shortcut.NewDispatcher(cfg.DispatcherOptions())
	if cfg.Arbiter.Destination != "" {
		a, err := dbusaccel.Dial(dbusaccel.Options{
			Destination: cfg.Arbiter.Destination,
			Path:        cfg.Arbiter.Path,
			Interface:   cfg.Arbiter.Interface,
		})
		if err != nil {
			log.Warn().Err(err).Msg("shortcut service unavailable")
		} else {
			d.Arbiter = a
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	h := newHost(ctx)
	if err := cfg.Bind(d, h.resolve); err != nil {
		return err
	}
	if *scriptPath != "" {
		rt := script.New(d, script.Options{})
		defer rt.Close()
		if err := rt.DoFile(*scriptPath); err != nil {
			return err
		}
	}

	opts := cfg.RouterOptions()
	opts.Session = session
	opts.Shortcuts = d
	opts.Loop = h.queue
	h.r = router.New(space, seat, opts)
	h.player = replay.NewPlayer(space, h.r, nil)

	if *replayPath != "" {
		rd, err := openReplay(*replayPath)
		if err != nil {
			return err
		}
		defer rd.Close()
		dev := event.NewDevice("replay", event.CapPointer|event.CapKeyboard|event.CapTouch|event.CapTablet|event.CapGesture)
		h.r.AddDevice(dev)
		dec := replay.NewDecoder(rd, dev)
		dec.Realtime = *realtime
		records := make(chan replay.Record)
		h.records = records
		g.Go(func() error {
			return replay.Feed(ctx, dec, records)
		})
	}
	if *useEvdev {
		if err := startEvdev(ctx, g, cfg, h); err != nil {
			return err
		}
	}
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	err = h.run(done)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().
		Int("motions", len(seat.Motions)).
		Int("buttons", len(seat.Buttons)).
		Int("keys", len(seat.Keys)).
		Str("pointer_focus", seat.PointerFocus.String()).
		Str("keyboard_focus", seat.KeyboardFocus.String()).
		Msg("done")
	return err
}

func openReplay(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// parseOutputs parses a list of sizes such as "1920x1080,1280x1024"
// into outputs placed left to right.
func parseOutputs(s string) ([]image.Rectangle, error) {
	var rects []image.Rectangle
	x := 0
	for _, size := range strings.Split(s, ",") {
		ws, hs, ok := strings.Cut(strings.TrimSpace(size), "x")
		if !ok {
			return nil, fmt.Errorf("invalid output size %q", size)
		}
		w, err := strconv.Atoi(ws)
		if err != nil {
			return nil, fmt.Errorf("invalid output size %q: %w", size, err)
		}
		h, err := strconv.Atoi(hs)
		if err != nil {
			return nil, fmt.Errorf("invalid output size %q: %w", size, err)
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("invalid output size %q", size)
		}
		rects = append(rects, image.Rect(x, 0, x+w, h))
		x += w
	}
	return rects, nil
}
