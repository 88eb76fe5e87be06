package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// DetectorSettings is the per-detector feature configuration.
type DetectorSettings struct {
	Enabled        bool   `yaml:"enabled"`
	MinConfidence  int    `yaml:"min_confidence"`
	AlertThreshold string `yaml:"alert_threshold"` // severity floor
	Notify         bool   `yaml:"notify"`
}

// FeatureConfig holds settings per alert type, keyed by the type string
// ("rlm", "steam", "sharp-public", "arbitrage", "clv").
type FeatureConfig struct {
	Detectors map[string]DetectorSettings `yaml:"detectors"`
}

// defaultSettings apply when a detector has no entry in the file.
var defaultSettings = DetectorSettings{
	Enabled:        true,
	MinConfidence:  0,
	AlertThreshold: string(models.SeverityInfo),
	Notify:         true,
}

func (c *FeatureConfig) settings(t models.AlertType) DetectorSettings {
	if c == nil || c.Detectors == nil {
		return defaultSettings
	}
	if s, ok := c.Detectors[string(t)]; ok {
		return s
	}
	return defaultSettings
}

// ParseFeatures parses a feature config document.
func ParseFeatures(data []byte) (*FeatureConfig, error) {
	var cfg FeatureConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse feature config: %w", err)
	}

	for name, s := range cfg.Detectors {
		if s.MinConfidence < 0 || s.MinConfidence > 100 {
			return nil, fmt.Errorf("detector %s: min_confidence %d out of range 0-100", name, s.MinConfidence)
		}
		if s.AlertThreshold != "" && models.Severity(s.AlertThreshold).Rank() < 0 {
			return nil, fmt.Errorf("detector %s: unknown alert_threshold %q", name, s.AlertThreshold)
		}
	}

	return &cfg, nil
}

// Features serves the current feature config and hot-reloads it when the
// file changes on disk. A reload has no effect on already-emitted alerts.
type Features struct {
	path string

	mu      sync.RWMutex
	cfg     *FeatureConfig
	modTime time.Time
}

// LoadFeatures reads the feature config file. A missing path yields
// all-default settings (everything enabled).
func LoadFeatures(path string) (*Features, error) {
	f := &Features{path: path}
	if path == "" {
		return f, nil
	}
	if err := f.reload(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Features) reload() error {
	info, err := os.Stat(f.path)
	if err != nil {
		return fmt.Errorf("stat feature config: %w", err)
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read feature config: %w", err)
	}

	cfg, err := ParseFeatures(data)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.cfg = cfg
	f.modTime = info.ModTime()
	f.mu.Unlock()
	return nil
}

// Watch polls the file's mtime and reloads on change until ctx-style stop
// via the returned channel is closed by the caller's context. A failed
// reload keeps the previous config.
func (f *Features) Watch(stop <-chan struct{}, interval time.Duration) {
	if f.path == "" {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			info, err := os.Stat(f.path)
			if err != nil {
				continue
			}
			f.mu.RLock()
			stale := info.ModTime().After(f.modTime)
			f.mu.RUnlock()
			if !stale {
				continue
			}
			if err := f.reload(); err != nil {
				fmt.Printf("[Config] feature reload failed, keeping previous: %v\n", err)
				continue
			}
			fmt.Println("[Config] feature config reloaded")
		}
	}
}

func (f *Features) current() *FeatureConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cfg
}

// Enabled reports whether a detector may run at all.
func (f *Features) Enabled(t models.AlertType) bool {
	return f.current().settings(t).Enabled
}

// MinConfidence is the confidence floor for a detector's alerts.
func (f *Features) MinConfidence(t models.AlertType) int {
	return f.current().settings(t).MinConfidence
}

// Threshold is the severity floor below which alerts are discarded.
func (f *Features) Threshold(t models.AlertType) models.Severity {
	s := f.current().settings(t)
	if s.AlertThreshold == "" {
		return models.SeverityInfo
	}
	return models.Severity(s.AlertThreshold)
}

// Notify reports whether alerts of this type should be sent outbound.
// Alerts are persisted either way.
func (f *Features) Notify(t models.AlertType) bool {
	return f.current().settings(t).Notify
}
