package o2

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. O2_WIDTH.
const EnvPrefix = "O2"

// Config holds runtime settings for a Scene and its window.
type Config struct {
	Title  string `yaml:"title" envconfig:"TITLE"`
	Width  int    `yaml:"width" envconfig:"WIDTH"`
	Height int    `yaml:"height" envconfig:"HEIGHT"`
	TPS    int    `yaml:"tps" envconfig:"TPS"`

	DragDistanceThreshold float64 `yaml:"drag_distance_threshold" envconfig:"DRAG_DISTANCE_THRESHOLD"`
	PixelPerfect          bool    `yaml:"pixel_perfect" envconfig:"PIXEL_PERFECT"`
	HandleFadeDuration    float64 `yaml:"handle_fade_duration" envconfig:"HANDLE_FADE_DURATION"`

	// DefaultBlendDuration is used by Scene.BlendTo when no duration is
	// given, in seconds.
	DefaultBlendDuration float64 `yaml:"default_blend_duration" envconfig:"DEFAULT_BLEND_DURATION"`
	// BlendEase names the easing of BlendTo cross-fades (see EaseByName).
	BlendEase string `yaml:"blend_ease" envconfig:"BLEND_EASE"`

	Debug     bool `yaml:"debug" envconfig:"DEBUG"`
	DebugDraw bool `yaml:"debug_draw" envconfig:"DEBUG_DRAW"`

	// ScreenshotDir is where Scene.Screenshot writes PNG files.
	ScreenshotDir string `yaml:"screenshot_dir" envconfig:"SCREENSHOT_DIR"`
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		Title:                 "o2",
		Width:                 1280,
		Height:                720,
		TPS:                   60,
		DragDistanceThreshold: DefaultDragDistanceThreshold,
		PixelPerfect:          true,
		HandleFadeDuration:    DefaultHandleFadeDuration,
		DefaultBlendDuration:  0.3,
		BlendEase:             "linear",
		ScreenshotDir:         "screenshots",
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("config: window size %dx%d must be positive", c.Width, c.Height)
	case c.TPS <= 0:
		return fmt.Errorf("config: tps %d must be positive", c.TPS)
	case c.DragDistanceThreshold < 0:
		return fmt.Errorf("config: drag_distance_threshold %v must not be negative", c.DragDistanceThreshold)
	case c.HandleFadeDuration < 0:
		return fmt.Errorf("config: handle_fade_duration %v must not be negative", c.HandleFadeDuration)
	case c.DefaultBlendDuration < 0:
		return fmt.Errorf("config: default_blend_duration %v must not be negative", c.DefaultBlendDuration)
	}
	if _, ok := EaseByName(c.BlendEase); !ok {
		return fmt.Errorf("config: unknown blend_ease %q", c.BlendEase)
	}
	return nil
}

// LoadConfig reads a YAML config file over DefaultConfig and then applies
// O2_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("load config env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ConfigWatcher reloads a config file whenever it changes on disk. Reloaded
// configs arrive on Configs; only the newest unread one is kept.
type ConfigWatcher struct {
	Configs chan Config
	Errors  chan error

	path    string
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	once    sync.Once
}

// configDebounce drops change events that follow the previous one this
// closely; editors often write a file in several steps.
const configDebounce = 100 * time.Millisecond

// WatchConfig starts watching path. The containing directory is watched so
// files replaced by rename are still seen.
func WatchConfig(path string) (*ConfigWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}
	cw := &ConfigWatcher{
		Configs: make(chan Config, 1),
		Errors:  make(chan error, 1),
		path:    abs,
		watcher: w,
		closeCh: make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Close stops the watcher. It is safe to call more than once.
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.closeCh)
		err = cw.watcher.Close()
	})
	return err
}

func (cw *ConfigWatcher) run() {
	var last time.Time
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			now := time.Now()
			if now.Sub(last) < configDebounce {
				continue
			}
			last = now
			cfg, err := LoadConfig(cw.path)
			if err != nil {
				cw.sendErr(err)
				continue
			}
			cw.sendConfig(cfg)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.sendErr(err)
		case <-cw.closeCh:
			return
		}
	}
}

// sendConfig replaces any unread config with cfg.
func (cw *ConfigWatcher) sendConfig(cfg Config) {
	for {
		select {
		case cw.Configs <- cfg:
			return
		default:
		}
		select {
		case <-cw.Configs:
		default:
		}
	}
}

func (cw *ConfigWatcher) sendErr(err error) {
	select {
	case cw.Errors <- err:
	default:
	}
}
