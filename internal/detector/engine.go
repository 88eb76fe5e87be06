package detector

import (
	"github.com/google/uuid"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

// FeatureSource gates detectors per alert type. Backed by the hot-reloaded
// feature config; changes never affect already-emitted alerts.
type FeatureSource interface {
	Enabled(t models.AlertType) bool
	MinConfidence(t models.AlertType) int
	Threshold(t models.AlertType) models.Severity
	Notify(t models.AlertType) bool
}

// Engine runs the detector set over market states and applies the feature
// gates: a disabled detector is never invoked, and alerts below the
// configured confidence or severity floor are discarded before persistence.
type Engine struct {
	features  FeatureSource
	detectors []Detector
}

// NewEngine creates an engine. With no detectors given, the full set is
// wired in.
func NewEngine(features FeatureSource, detectors ...Detector) *Engine {
	if len(detectors) == 0 {
		detectors = []Detector{
			NewRLMDetector(),
			NewSteamDetector(),
			NewSharpPublicDetector(),
			NewArbitrageDetector(),
		}
	}
	return &Engine{features: features, detectors: detectors}
}

// Scan produces the alert batch for a set of market states. Each invocation
// produces fresh alerts with new IDs; nothing is mutated in place.
func (e *Engine) Scan(states []models.MarketState) []models.EdgeAlert {
	var alerts []models.EdgeAlert

	for _, state := range states {
		for _, d := range e.detectors {
			if !e.features.Enabled(d.Type()) {
				continue
			}

			alert := d.Detect(state)
			if alert == nil {
				continue
			}
			if alert.Confidence < e.features.MinConfidence(alert.Type) {
				continue
			}
			if !alert.Severity.AtLeast(e.features.Threshold(alert.Type)) {
				continue
			}

			alert.ID = uuid.NewString()
			alerts = append(alerts, *alert)
		}
	}

	return alerts
}

// Gate runs an external alert producer (e.g. the CLV signal from the
// grading job) under the same feature gates as Scan: a disabled type means
// produce is never invoked, and the result must clear the confidence and
// severity floors. Returns the alert with an ID assigned, or nil.
func (e *Engine) Gate(t models.AlertType, produce func() *models.EdgeAlert) *models.EdgeAlert {
	if !e.features.Enabled(t) {
		return nil
	}
	alert := produce()
	if alert == nil {
		return nil
	}
	if alert.Confidence < e.features.MinConfidence(alert.Type) {
		return nil
	}
	if !alert.Severity.AtLeast(e.features.Threshold(alert.Type)) {
		return nil
	}
	alert.ID = uuid.NewString()
	return alert
}
