package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreguard-systems/coreguard/pkg/types"
)

func TestClassify(t *testing.T) {
	cfg := types.ThresholdConfig{Warning: 95, Critical: 100}

	tests := []struct {
		name  string
		value float64
		want  types.Severity
	}{
		{"well below warning", 10, types.SeverityNormal},
		{"just below warning", 94.999, types.SeverityNormal},
		{"warning boundary is inclusive", 95, types.SeverityWarning},
		{"between tiers", 97.5, types.SeverityWarning},
		{"just below critical", 99.999, types.SeverityWarning},
		{"critical boundary is inclusive", 100, types.SeverityCritical},
		{"above critical", 250, types.SeverityCritical},
		{"negative value", -5, types.SeverityNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value, cfg))
		})
	}
}

func TestClassify_EqualThresholds(t *testing.T) {
	// warning == critical is valid config; the boundary belongs to the
	// higher tier.
	cfg := types.ThresholdConfig{Warning: 90, Critical: 90}
	assert.Equal(t, types.SeverityCritical, Classify(90, cfg))
	assert.Equal(t, types.SeverityNormal, Classify(89.9, cfg))
}
