package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	countdowninadapter "thresholdtimer/internal/modules/countdown/adapter/in"
	countdownoutadapter "thresholdtimer/internal/modules/countdown/adapter/out"
	countdownservice "thresholdtimer/internal/modules/countdown/service"
	countdownusecase "thresholdtimer/internal/modules/countdown/usecase"
	presetinadapter "thresholdtimer/internal/modules/preset/adapter/in"
	presetoutadapter "thresholdtimer/internal/modules/preset/adapter/out"
	presetservice "thresholdtimer/internal/modules/preset/service"
	presetusecase "thresholdtimer/internal/modules/preset/usecase"
	settingsinadapter "thresholdtimer/internal/modules/settings/adapter/in"
	settingsoutadapter "thresholdtimer/internal/modules/settings/adapter/out"
	settingsservice "thresholdtimer/internal/modules/settings/service"
	settingsusecase "thresholdtimer/internal/modules/settings/usecase"
	thresholdinadapter "thresholdtimer/internal/modules/threshold/adapter/in"
	thresholdoutadapter "thresholdtimer/internal/modules/threshold/adapter/out"
	thresholdout "thresholdtimer/internal/modules/threshold/port/out"
	thresholdservice "thresholdtimer/internal/modules/threshold/service"
	thresholdusecase "thresholdtimer/internal/modules/threshold/usecase"
	"thresholdtimer/internal/platform/alert"
	"thresholdtimer/internal/platform/clock"
	"thresholdtimer/internal/platform/config"
	"thresholdtimer/internal/platform/id"
	"thresholdtimer/internal/platform/logging"
	"thresholdtimer/internal/platform/sqlitedb"
	"thresholdtimer/internal/platform/tx"
	uiapp "thresholdtimer/internal/ui/app"
)

type Options struct {
	// TUI sends logs to the configured log file so the screen stays clean.
	TUI bool
	// Feed overrides the configured sensor feed when set.
	Feed string
	// Bell receives terminal bell cues; nil disables them.
	Bell io.Writer
}

type App struct {
	ThresholdCLI thresholdinadapter.CLIHandler
	CountdownCLI countdowninadapter.CLIHandler
	PresetCLI    presetinadapter.CLIHandler
	SettingsCLI  settingsinadapter.CLIHandler

	// Guard is exposed so the host can revoke background execution.
	Guard  *thresholdoutadapter.LeaseGuard
	Logger *zap.Logger

	db *sql.DB
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	// Foreground commands own stdout, so logs go to stderr.
	logOutput := "stderr"
	if opts.TUI {
		logOutput = cfg.Log.File
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, logOutput)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}

	db, err := sqlitedb.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	clk := clock.SystemClock{}
	ids := id.UUID{}

	settingsStore, err := settingsoutadapter.NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new settings store: %w", err)
	}
	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(settingsStore))

	presetStore, err := presetoutadapter.NewSQLiteStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new preset store: %w", err)
	}
	presetUC := presetusecase.NewInteractor(presetservice.NewPresetService(presetStore, tx.NewSQLManager(db), ids))

	sinks := alert.Multi{alert.NewLogSink(logger)}
	if opts.Bell != nil {
		sinks = append(sinks, alert.NewTerminalSink(opts.Bell))
	}

	feedKind := cfg.Threshold.Feed
	if opts.Feed != "" {
		feedKind = opts.Feed
	}
	feed, err := newFeed(feedKind, cfg, clk, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	guard := thresholdoutadapter.NewLeaseGuard(clk, ids, logger, thresholdoutadapter.LeaseOptions{
		Enabled:       cfg.Runtime.Enabled,
		Lease:         cfg.Runtime.Lease,
		ExpiryWarning: cfg.Runtime.ExpiryWarning,
	})
	monitor := thresholdservice.NewMonitor(clk, feed, guard, sinks, logger, thresholdservice.Options{
		DebounceFloor: cfg.Threshold.DebounceFloor,
	})
	thresholdUC := thresholdusecase.NewInteractor(monitor, settingsUC)

	var notifier countdownoutadapter.Notifier = countdownoutadapter.NewLogNotifier(logger)
	if cfg.Notify.Kind == "desktop" {
		notifier = countdownoutadapter.NewDesktopNotifier()
	}
	engine := countdownservice.NewEngine(clk, countdownoutadapter.NewTimerScheduler(clk, notifier, logger), sinks, logger, countdownservice.Options{
		RefreshInterval: cfg.Countdown.RefreshInterval,
		DefaultDuration: cfg.Countdown.DefaultDuration,
	})
	countdownUC := countdownusecase.NewInteractor(engine, presetUC)

	logger.Debug("bootstrap complete",
		zap.String("data_dir", cfg.DataDir),
		zap.String("feed", feedKind),
		zap.String("notify", cfg.Notify.Kind),
	)

	return &App{
		ThresholdCLI: thresholdinadapter.NewCLIHandler(thresholdUC),
		CountdownCLI: countdowninadapter.NewCLIHandler(countdownUC),
		PresetCLI:    presetinadapter.NewCLIHandler(presetUC),
		SettingsCLI:  settingsinadapter.NewCLIHandler(settingsUC),
		Guard:        guard,
		Logger:       logger,
		db:           db,
	}, nil
}

// Close stops both engines, closes their status streams, and releases the
// database.
func (a *App) Close(ctx context.Context) error {
	err := errors.Join(
		a.ThresholdCLI.Dispose(ctx),
		a.CountdownCLI.Dispose(ctx),
		a.db.Close(),
	)
	_ = a.Logger.Sync()
	return err
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.ThresholdCLI, app.CountdownCLI, app.PresetCLI, app.SettingsCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newFeed(kind string, cfg config.Config, clk clock.Clock, logger *zap.Logger) (thresholdout.SensorFeed, error) {
	switch kind {
	case "sim", "":
		return thresholdoutadapter.NewSimulatedFeed(clk, thresholdoutadapter.SimulatorOptions{
			Interval: cfg.Simulator.Interval,
			Baseline: cfg.Simulator.Baseline,
			Spread:   cfg.Simulator.Spread,
			Step:     cfg.Simulator.Step,
			Seed:     cfg.Simulator.Seed,
		}), nil
	case "mqtt":
		return thresholdoutadapter.NewMQTTFeed(thresholdoutadapter.MQTTOptions{
			Broker:         cfg.MQTT.Broker,
			Topic:          cfg.MQTT.Topic,
			ClientID:       cfg.MQTT.ClientID,
			Username:       cfg.MQTT.Username,
			Password:       cfg.MQTT.Password,
			QoS:            cfg.MQTT.QoS,
			ConnectTimeout: cfg.MQTT.ConnectTimeout,
		}, logger), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown sensor feed %q: want sim, mqtt or none", kind)
	}
}
