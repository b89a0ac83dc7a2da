// Command refboxd is the referee console process: it wires together the
// Tournament Manager, Tick Driver, Update Sender/Server, TCP listener,
// serial ports, debug monitor, and the opaque schedule provider, then runs
// until SIGINT/SIGTERM (spec §2 "System Overview").
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/uwhrefbox/refbox/internal/adapters/history"
	"github.com/uwhrefbox/refbox/internal/adapters/schedule"
	"github.com/uwhrefbox/refbox/internal/adapters/serialio"
	"github.com/uwhrefbox/refbox/internal/clock"
	"github.com/uwhrefbox/refbox/internal/config"
	"github.com/uwhrefbox/refbox/internal/core/monitor"
	"github.com/uwhrefbox/refbox/internal/core/sender"
	"github.com/uwhrefbox/refbox/internal/core/tick"
	"github.com/uwhrefbox/refbox/internal/core/tournament"
	"github.com/uwhrefbox/refbox/internal/events"
	"github.com/uwhrefbox/refbox/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting refboxd")

	gameCfg, err := config.LoadGameConfig(cfg.GameConfigPath)
	if err != nil {
		telemetry.Errorf("game config: %v", err)
		os.Exit(1)
	}

	tm := tournament.New(tournament.Config{
		HalfPlayDuration:         gameCfg.HalfPlayDuration,
		HalfTimeDuration:         gameCfg.HalfTimeDuration,
		NominalBreak:             gameCfg.NominalBreak,
		MinimumBreak:             gameCfg.MinimumBreak,
		PreOvertimeBreak:         gameCfg.PreOvertimeBreak,
		OvertimeHalfPlayDuration: gameCfg.OvertimeHalfPlayDuration,
		OvertimeHalfTimeDuration: gameCfg.OvertimeHalfTimeDuration,
		PreSuddenDeathDuration:   gameCfg.PreSuddenDeathDuration,
		TeamTimeoutDuration:      gameCfg.TeamTimeoutDuration,
		TeamTimeoutsPerHalf:      gameCfg.TeamTimeoutsPerHalf,
		OvertimeAllowed:          gameCfg.OvertimeAllowed,
		SuddenDeathAllowed:       gameCfg.SuddenDeathAllowed,
		PostGameDuration:         gameCfg.PostGameDuration,
		Location:                gameCfg.Location(),
	})

	bus := events.NewBus()
	srv := sender.NewServer()
	mon := monitor.New()
	clk := clock.Real()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		srv.Run(gctx)
		return nil
	})

	grp.Go(func() error {
		return sender.ListenAndServe(gctx, srv, addr(cfg.BinaryPort), addr(cfg.JSONPort))
	})

	grp.Go(func() error {
		return mon.ListenAndServe(cfg.MonitorAddr)
	})

	serialio.OpenAll(srv, serialDevices(cfg.SerialDevices, cfg.SerialBaud))

	var scheduleReporter *schedule.Reporter
	var historyReporter *history.Reporter
	if cfg.ScheduleBaseURL != "" {
		client := schedule.NewClient(cfg.ScheduleBaseURL, cfg.PollInterval(), cfg.ScheduleAttempts)
		poller := schedule.NewPoller(client, tm)
		scheduleReporter = schedule.NewReporter(client)
		grp.Go(func() error {
			poller.Run(gctx, cfg.PollInterval())
			return nil
		})
	} else {
		store, err := history.Open(cfg.HistoryDBPath)
		if err != nil {
			telemetry.Errorf("history store: %v", err)
			os.Exit(1)
		}
		defer store.Close()
		historyReporter = history.NewReporter(store)
	}

	bus.Subscribe(events.EventNewSnapshot, func(e events.Event) error {
		snap, ok := e.Payload.(tournament.GameSnapshot)
		if !ok {
			return nil
		}
		if scheduleReporter != nil {
			scheduleReporter.Observe(gctx, e.Timestamp, snap)
		}
		if historyReporter != nil {
			historyReporter.Observe(e.Timestamp, snap)
		}
		return nil
	})

	driver := tick.New(tm, clk, srv, mon, bus)
	grp.Go(func() error {
		driver.Run(gctx)
		return nil
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		telemetry.Infof("Shutting down refboxd...")
	case <-gctx.Done():
		telemetry.Errorf("refboxd: a supervised task exited early: %v", gctx.Err())
	}
	cancel()

	done := make(chan struct{})
	go func() {
		grp.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		telemetry.Warnf("refboxd: shutdown timed out waiting for supervised tasks")
	}

	telemetry.Infof("refboxd shutdown complete  snapshots=%d  dropped=%d",
		telemetry.Metrics.SnapshotsGenerated.Value(),
		telemetry.Metrics.FramesDropped.Value(),
	)
}

func addr(port int) string {
	return ":" + strconv.Itoa(port)
}

func serialDevices(paths []string, baud int) []serialio.Device {
	out := make([]serialio.Device, 0, len(paths)*2)
	for _, p := range paths {
		out = append(out, serialio.Device{Path: p, Baud: baud, Kind: sender.SinkBinary})
	}
	return out
}
