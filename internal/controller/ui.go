// Package controller provides output adapters for displaying patch
// progress and results.
package controller

import (
	m "github.com/droidmod/gatepatch/internal/model"
)

// UI defines the interface for reporting a patch run's progress.
// Implementations can use different output methods (simple text, TUI).
type UI interface {
	Start() error
	Close()
	StageStarted(stage string)
	FeatureStarted(feature string)
	UnitPatched(feature string, unit m.Path)
	FeatureCompleted(result m.FeatureResult)
	Summary(report m.PatchReport) error
}
