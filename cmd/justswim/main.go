// Command justswim times swim training intervals on poolside hardware. It
// classifies wall-tap impacts from a continuously sampled accelerometer,
// corrects manual swim/rest toggles against the nearest preceding tap, and
// publishes set records to an external workout service over MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joeldrotleff/JustSwim/internal/button"
	"github.com/joeldrotleff/JustSwim/internal/config"
	"github.com/joeldrotleff/JustSwim/internal/imu"
	"github.com/joeldrotleff/JustSwim/internal/laps"
	"github.com/joeldrotleff/JustSwim/internal/metrics"
	"github.com/joeldrotleff/JustSwim/internal/motion"
	"github.com/joeldrotleff/JustSwim/internal/mqtt"
	"github.com/joeldrotleff/JustSwim/internal/session"
	"github.com/joeldrotleff/JustSwim/internal/status"
	"github.com/joeldrotleff/JustSwim/internal/web"
)

func main() {
	printSample := flag.Bool("print-sample", false, "Read one accelerometer sample and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := run(cfg, *printSample); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, printSample bool) error {
	// The accelerometer is the one thing we cannot time sets without.
	// Report failure at startup; no retry.
	source, err := imu.NewRealSource(cfg.IIODevice)
	if err != nil {
		return fmt.Errorf("init accelerometer: %w", err)
	}
	defer source.Close()

	// Print sample mode
	if printSample {
		x, y, z, err := source.Read()
		if err != nil {
			return fmt.Errorf("read accelerometer: %w", err)
		}
		s := motion.NewSample(time.Now(), x, y, z)
		fmt.Printf("x: %+.3fg, y: %+.3fg, z: %+.3fg, magnitude: %.3fg\n", s.X, s.Y, s.Z, s.Magnitude)
		return nil
	}

	buttons, err := button.NewRealInput(cfg.PinToggle, cfg.PinPause, cfg.PinEnd)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	publisher, err := mqtt.NewRealPublisher(cfg.Broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	lapFeed, err := laps.NewMQTTCounter(cfg.Broker)
	if err != nil {
		return fmt.Errorf("init lap counter feed: %w", err)
	}
	defer lapFeed.Close()

	registry := prometheus.NewRegistry()
	met := metrics.New(registry)

	tracker := status.NewTracker(time.Now(), status.Config{
		SampleMs:    cfg.SampleMs,
		HeartbeatMs: cfg.HeartbeatMs,
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		PoolLength:  cfg.PoolLength,
		PoolUnit:    cfg.PoolUnit,
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, registry)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: sample=%v pool=%g%s broker=%s heartbeat=%v",
		cfg.SampleInterval(), cfg.PoolLength, cfg.PoolUnit, cfg.Broker, cfg.HeartbeatInterval())

	sampleTicker := time.NewTicker(cfg.SampleInterval())
	defer sampleTicker.Stop()
	secondTicker := time.NewTicker(time.Second)
	defer secondTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	pool := session.Pool{Length: cfg.PoolLength, Unit: cfg.PoolUnit}
	return runLoop(source, buttons.Presses(), lapFeed.Counts(), publisher, publisher,
		tracker, met, pool, cfg.HeartbeatInterval(), time.Now, sampleTicker.C, secondTicker.C, sigCh)
}

// runLoop is the daemon's single mutation path: sampling ticks, countdown
// ticks, button presses, lap counts, and shutdown signals are serialized
// here, so the state machine and classifier never see concurrent input.
func runLoop(source imu.Source, presses <-chan button.Press, lapCounts <-chan int,
	publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus,
	tracker *status.Tracker, met *metrics.Metrics, pool session.Pool,
	heartbeat time.Duration, now func() time.Time,
	sampleTick, secondTick <-chan time.Time, sig <-chan os.Signal) error {

	classifier := motion.NewClassifier()
	tapBuffer := motion.NewTapBuffer()
	machine := session.NewMachine(tapBuffer)

	// Sample ingestion starts with the session, not with the process.
	sampling := false
	lastHeartbeat := now()

	handle := func(events []session.Event) {
		for _, ev := range events {
			switch ev.Kind {
			case session.EventSessionStarted:
				sampling = true
				log.Printf("session %s started (pool %g%s)", machine.SessionID(), pool.Length, pool.Unit)
				publishSession(publisher, met, mqtt.SessionEvent{
					Timestamp: ev.Time,
					SessionID: machine.SessionID(),
					Event:     "STARTED",
					Pool:      pool,
				})

			case session.EventTransition:
				log.Printf("transition: swimming=%v at %s", ev.Transition.Swimming,
					ev.Transition.Time.Format(time.RFC3339Nano))
				if err := publisher.PublishTransition(machine.SessionID(), *ev.Transition); err != nil {
					met.PublishErrors.Inc()
					// Timing state is authoritative; losing the external
					// record must not freeze the workout.
					log.Printf("publish transition error: %v", err)
				}

			case session.EventSetCompleted:
				rec := *ev.Set
				met.SetsCompleted.Inc()
				if rec.Corrected {
					met.CorrectedSets.Inc()
				}
				tracker.RecordSet(rec)
				log.Printf("set %d: %v, %d laps%s", machine.SetCount(), rec.Duration(),
					rec.Laps, correctedSuffix(rec))
				if err := publisher.PublishSet(machine.SessionID(), rec); err != nil {
					met.PublishErrors.Inc()
					log.Printf("publish set error: %v", err)
				}

			case session.EventSessionPaused:
				log.Printf("session paused")
				publishSession(publisher, met, mqtt.SessionEvent{
					Timestamp: ev.Time, SessionID: machine.SessionID(), Event: "PAUSED",
				})

			case session.EventSessionResumed:
				log.Printf("session resumed")
				publishSession(publisher, met, mqtt.SessionEvent{
					Timestamp: ev.Time, SessionID: machine.SessionID(), Event: "RESUMED",
				})

			case session.EventSessionEnded:
				sampling = false
				sets := machine.Sets()
				log.Printf("session %s completed: %d sets, %d laps", machine.SessionID(),
					len(sets), machine.TotalLaps())
				publishSession(publisher, met, mqtt.SessionEvent{
					Timestamp: ev.Time,
					SessionID: machine.SessionID(),
					Event:     "COMPLETED",
					Pool:      pool,
					Sets:      sets,
				})
			}
		}
	}

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
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
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case p := <-presses:
			handle(dispatchPress(machine, pool, p))

		case n := <-lapCounts:
			machine.SetLaps(n)

		case <-secondTick:
			t := now()
			handle(machine.Tick(t))

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				hbEvent := mqtt.SystemEvent{Timestamp: t, Event: "HEARTBEAT"}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

		case <-sampleTick:
			if !sampling {
				continue
			}
			t := now()
			x, y, z, err := source.Read()
			if err != nil {
				met.SampleErrors.Inc()
				log.Printf("accelerometer read error: %v", err)
				continue
			}
			met.SamplesIngested.Inc()
			if tap, ok := classifier.Ingest(motion.NewSample(t, x, y, z)); ok {
				tapBuffer.Record(tap)
				met.TapsDetected.Inc()
				if tracker != nil {
					tracker.RecordTap(tap)
				}
				log.Printf("wall tap: %.2fg", tap.Magnitude)
			}
		}

		// Refresh status for HTTP and heartbeat consumers
		if tracker != nil {
			tracker.UpdateWorkout(workoutView(machine, now()))
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
		met.LapsInSet.Set(float64(machine.LapsInSet()))
	}
}

// dispatchPress maps a button press onto the state machine. The toggle
// button is contextual: it starts a session from PreStart, toggles
// swim/rest while active, and resets after Completed.
func dispatchPress(machine *session.Machine, pool session.Pool, p button.Press) []session.Event {
	switch p.Kind {
	case button.KindToggle:
		switch machine.Phase() {
		case session.PhasePreStart:
			machine.Begin(p.Time)
			return machine.ConfirmPool(pool, p.Time)
		case session.PhaseCompleted:
			machine.Reset()
			log.Printf("session reset")
			return nil
		default:
			return machine.Toggle(p.Time)
		}

	case button.KindPause:
		if machine.Phase() == session.PhasePaused {
			return machine.Resume(p.Time)
		}
		return machine.Pause(p.Time)

	case button.KindEnd:
		return machine.End(p.Time)
	}
	return nil
}

// workoutView projects the machine's state into the status tracker's shape.
func workoutView(machine *session.Machine, now time.Time) status.Workout {
	return status.Workout{
		Phase:     machine.Phase(),
		Swim:      machine.Swim(),
		Countdown: machine.Countdown(),
		SessionID: machine.SessionID(),
		SetCount:  machine.SetCount(),
		LapsInSet: machine.LapsInSet(),
		TotalLaps: machine.TotalLaps(),
		Elapsed:   machine.Elapsed(now),
	}
}

func publishSession(publisher mqtt.Publisher, met *metrics.Metrics, event mqtt.SessionEvent) {
	if err := publisher.PublishSession(event); err != nil {
		met.PublishErrors.Inc()
		log.Printf("publish session %s error: %v", event.Event, err)
	}
}

func correctedSuffix(rec session.SetRecord) string {
	if rec.Corrected {
		return " (tap-corrected)"
	}
	return ""
}
