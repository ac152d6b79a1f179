package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/presets"
)

// PresetReloader keeps the preset registry in sync with presets.yaml
type PresetReloader struct {
	loader        *presets.Loader
	registry      *presets.Registry
	bounds        domain.Bounds
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewPresetReloader creates a new preset reloader. A non-positive interval
// disables periodic reloads; the manual trigger still works.
func NewPresetReloader(
	presetFile string,
	registry *presets.Registry,
	bounds domain.Bounds,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *PresetReloader {
	return &PresetReloader{
		loader:        presets.NewLoader(presetFile),
		registry:      registry,
		bounds:        bounds,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the presets once and then listens for reload requests
func (pr *PresetReloader) Start(ctx context.Context) error {
	if err := pr.Reload(ctx); err != nil {
		return fmt.Errorf("initial preset reload failed: %w", err)
	}

	var tick <-chan time.Time
	var ticker *time.Ticker
	if pr.interval > 0 {
		ticker = time.NewTicker(pr.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload presets",
						logger.Error(err))
				}
			case <-pr.manualTrigger:
				pr.logger.Info("manual preset reload triggered")
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload presets",
						logger.Error(err))
				}
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (pr *PresetReloader) Stop() {
	close(pr.stopCh)
}

// Reload parses presets.yaml and replaces the registry content. Invalid
// entries are skipped with a warning; the registry is left untouched when the
// file cannot be read or holds no usable preset.
func (pr *PresetReloader) Reload(_ context.Context) error {
	pr.logger.Info("reloading presets",
		logger.String("file", pr.loader.Path()))

	config, err := pr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}

	list, err := presets.Map(config, pr.bounds)
	if len(list) == 0 {
		return fmt.Errorf("failed to map presets: %w", err)
	}
	if err != nil {
		pr.logger.Warn("some presets were skipped",
			logger.Error(err))
	}

	pr.registry.Replace(list)
	pr.logger.Info("presets loaded",
		logger.Int("count", len(list)))

	return nil
}
