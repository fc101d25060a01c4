// Command daylight-sensor simulates daylight detector blocks and publishes
// their redstone power changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/daylight-sensor/internal/config"
	"github.com/sweeney/daylight-sensor/internal/detector"
	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/mqtt"
	"github.com/sweeney/daylight-sensor/internal/skylight"
	"github.com/sweeney/daylight-sensor/internal/status"
	"github.com/sweeney/daylight-sensor/internal/store"
	"github.com/sweeney/daylight-sensor/internal/web"
	"github.com/sweeney/daylight-sensor/internal/world"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	tickRate := flag.Int("tick-rate", 0, "Game ticks per second (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	printState := flag.Bool("print-state", false, "Print current detector states and exit")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}
	if *dbPath != "" {
		cfg.Store.DBPath = *dbPath
	}
	if *tickRate != 0 {
		cfg.World.TickRateHz = *tickRate
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: invalid config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: invalid log level %q\n", cfg.Logging.Level)
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(cfg, *printState); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func run(cfg config.Config, printState bool) error {
	sky, err := newSkySource(cfg.Skylight)
	if err != nil {
		return fmt.Errorf("init skylight source: %w", err)
	}
	defer sky.Close()

	w := world.New(world.Config{
		HasSkylight:  cfg.World.HasSkylight,
		StartDayTime: cfg.World.StartDayTime,
		Weather:      cfg.World.Weather,
		WeatherSeed:  cfg.World.WeatherSeed,
	}, sky)

	behaviour := detector.Behaviour{}
	w.SetTickHandler(func(pos world.BlockPos) {
		behaviour.OnScheduledTick(w, pos)
	})

	instanceID := uuid.NewString()[:8]
	tracker := status.NewTracker(time.Now(), status.Config{
		TickRateHz:     cfg.World.TickRateHz,
		Broker:         cfg.MQTT.Broker,
		HTTPAddr:       cfg.HTTP.Addr,
		DBPath:         cfg.Store.DBPath,
		HeartbeatMs:    cfg.MQTT.HeartbeatMs,
		SkylightSource: cfg.Skylight.Source,
		Weather:        cfg.World.Weather,
	}, instanceID)
	w.AddSink(tracker)

	// Restore persisted detectors, then place configured ones on top.
	var db *store.Store
	if cfg.Store.DBPath != "" {
		db, err = store.Open(cfg.Store.DBPath, log.Logger)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		restored, err := db.LoadAll()
		if err != nil {
			return fmt.Errorf("load detectors: %w", err)
		}
		for pos, props := range restored {
			placeDetector(w, behaviour, tracker, pos, props)
		}
		log.Info().Int("count", len(restored)).Str("db", cfg.Store.DBPath).Msg("restored detectors")

		w.AddSink(db)
	}
	for _, d := range cfg.Detectors {
		pos := world.BlockPos{X: d.X, Y: d.Y, Z: d.Z}
		if _, ok := w.BlockState(pos); ok {
			continue
		}
		placeDetector(w, behaviour, tracker, pos, logic.Properties{Inverted: d.Inverted})
		if db != nil {
			if err := db.Upsert(pos, logic.Properties{Inverted: d.Inverted}); err != nil {
				log.Warn().Err(err).Stringer("pos", pos).Msg("persist configured detector")
			}
		}
	}

	if printState {
		return printStates(w, os.Stdout)
	}

	publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, "daylight-sensor-"+instanceID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()
	w.AddSink(&changeSink{publisher: publisher, now: time.Now})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Warn().Err(err).Msg("failed to publish startup event")
	} else {
		log.Info().Msg("published startup event")
	}

	// Toggle and remove requests from HTTP handlers cross into the
	// simulation loop through these channels. loopDone is closed once the
	// loop exits so handlers caught mid-shutdown fail fast instead of
	// blocking srv.Shutdown's drain forever.
	toggleCh := make(chan toggleReq)
	removeCh := make(chan removeReq)
	loopDone := make(chan struct{})
	toggle := newToggleFunc(toggleCh, loopDone)
	remove := newRemoveFunc(removeCh, loopDone, db)

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, toggle, remove)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http status server listening")
	}

	log.Info().
		Int("tick_rate_hz", cfg.World.TickRateHz).
		Str("broker", cfg.MQTT.Broker).
		Int64("start_day_time", cfg.World.StartDayTime).
		Bool("weather", cfg.World.Weather).
		Msg("started")

	ticker := time.NewTicker(time.Second / time.Duration(cfg.World.TickRateHz))
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	heartbeat := time.Duration(cfg.MQTT.HeartbeatMs) * time.Millisecond
	err = runLoop(w, behaviour, publisher, publisher, tracker, heartbeat, time.Now, ticker.C, sigCh, toggleCh, removeCh)
	close(loopDone)
	return err
}

// toggleReq asks the simulation loop to flip a detector's inverted mode.
type toggleReq struct {
	pos   world.BlockPos
	reply chan toggleReply
}

type toggleReply struct {
	props logic.Properties
	ok    bool
}

// removeReq asks the simulation loop to remove a detector.
type removeReq struct {
	pos   world.BlockPos
	reply chan bool
}

// newToggleFunc returns the ToggleFunc handed to the web server. Requests
// cross into the simulation loop over toggleCh; done unblocks callers once
// the loop has exited, so an in-flight handler returns instead of holding
// the HTTP server open.
func newToggleFunc(toggleCh chan<- toggleReq, done <-chan struct{}) web.ToggleFunc {
	return func(pos world.BlockPos) (logic.Properties, bool) {
		req := toggleReq{pos: pos, reply: make(chan toggleReply, 1)}
		select {
		case toggleCh <- req:
		case <-done:
			return logic.Properties{}, false
		}
		r := <-req.reply
		return r.props, r.ok
	}
}

// newRemoveFunc returns the RemoveFunc handed to the web server. Removal
// runs on the simulation loop; the persisted row is then deleted from the
// calling goroutine (database/sql serializes access). db may be nil.
func newRemoveFunc(removeCh chan<- removeReq, done <-chan struct{}, db *store.Store) web.RemoveFunc {
	return func(pos world.BlockPos) bool {
		req := removeReq{pos: pos, reply: make(chan bool, 1)}
		select {
		case removeCh <- req:
		case <-done:
			return false
		}
		ok := <-req.reply
		if ok && db != nil {
			if err := db.Delete(pos); err != nil {
				log.Warn().Err(err).Stringer("pos", pos).Msg("delete persisted detector")
			}
		}
		return ok
	}
}

// runLoop is the simulation loop. It owns the world: every world mutation
// (ticks, toggles) happens here, in arrival order.
func runLoop(w *world.World, behaviour detector.Behaviour, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal, toggleCh <-chan toggleReq, removeCh <-chan removeReq) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Warn().Err(err).Msg("failed to publish shutdown event")
			} else {
				log.Info().Msg("published shutdown event")
			}
			return nil

		case <-tick:
			w.Advance(1)

			if tracker != nil {
				tracker.SetWorld(w.DayTime(), w.RainLevel(), w.ThunderLevel())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if heartbeat > 0 && now().Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = now()
				hbEvent := mqtt.SystemEvent{
					Timestamp: lastHeartbeat,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
					log.Info().
						Int64("day_time", snap.DayTime).
						Int("detectors", len(snap.Detectors)).
						Int("power_writes", snap.Counts.PowerWrites).
						Msg("heartbeat")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Warn().Err(err).Msg("heartbeat publish error")
				}
			}

		case req := <-toggleCh:
			ok := behaviour.Use(w, req.pos)
			var props logic.Properties
			if ok {
				props, _ = w.BlockState(req.pos)
				log.Info().
					Stringer("pos", req.pos).
					Bool("inverted", props.Inverted).
					Int("power", int(props.Power)).
					Msg("detector toggled")
			}
			req.reply <- toggleReply{props: props, ok: ok}

		case req := <-removeCh:
			_, ok := w.BlockState(req.pos)
			if ok {
				w.RemoveDetector(req.pos)
				if tracker != nil {
					tracker.RemoveDetector(req.pos)
				}
				log.Info().Stringer("pos", req.pos).Msg("detector removed")
			}
			req.reply <- ok
		}
	}
}

// placeDetector registers a detector with the world, arms its tick, and
// seeds the status tracker.
func placeDetector(w *world.World, behaviour detector.Behaviour, tracker *status.Tracker, pos world.BlockPos, props logic.Properties) {
	w.PlaceDetector(pos, props)
	behaviour.Placed(w, pos)
	if tracker != nil {
		tracker.SetDetector(pos, props)
	}
	log.Debug().Stringer("pos", pos).Bool("inverted", props.Inverted).Msg("placed detector")
}

// changeSink publishes committed world changes as MQTT events.
type changeSink struct {
	publisher mqtt.Publisher
	now       func() time.Time
}

func (s *changeSink) OnChange(c world.Change) {
	event := mqtt.Event{
		Timestamp: s.now(),
		Pos:       c.Pos,
		Power:     c.Props.Power,
		Inverted:  c.Props.Inverted,
		Notify:    c.Notify,
	}
	if err := s.publisher.Publish(event); err != nil {
		log.Warn().Err(err).Stringer("pos", c.Pos).Msg("publish error")
	}
}

func newSkySource(cfg config.SkylightConfig) (skylight.Source, error) {
	switch cfg.Source {
	case "gpio":
		pins := skylight.DefaultPins
		if len(cfg.Pins) == 4 {
			copy(pins[:], cfg.Pins)
		}
		return skylight.NewGPIOReader(cfg.Chip, pins)
	default:
		return skylight.Constant(cfg.Level), nil
	}
}

func printStates(w *world.World, out io.Writer) error {
	states := w.DetectorStates()
	if len(states) == 0 {
		fmt.Fprintln(out, "no detectors")
		return nil
	}
	for pos, props := range states {
		mode := "normal"
		if props.Inverted {
			mode = "inverted"
		}
		fmt.Fprintf(out, "%s: %s power=%d\n", pos, mode, props.Power)
	}
	return nil
}
