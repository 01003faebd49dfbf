package monitor

import "github.com/coreguard-systems/coreguard/pkg/types"

// Classify maps a reading onto a severity tier. Boundary values belong to
// the higher tier: a value exactly at the critical threshold is Critical.
func Classify(value float64, cfg types.ThresholdConfig) types.Severity {
	switch {
	case value >= cfg.Critical:
		return types.SeverityCritical
	case value >= cfg.Warning:
		return types.SeverityWarning
	default:
		return types.SeverityNormal
	}
}
