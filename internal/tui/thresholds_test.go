package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimits_Classify(t *testing.T) {
	tests := []struct {
		name string
		l    limits
		v    float64
		want severity
	}{
		{"cpu idle", cpuLimits, 0, severityNormal},
		{"cpu at warn boundary", cpuLimits, 80, severityNormal},
		{"cpu above warn", cpuLimits, 80.1, severityWarning},
		{"cpu at crit boundary", cpuLimits, 90, severityWarning},
		{"cpu above crit", cpuLimits, 90.1, severityCritical},
		{"heap above warn", heapLimits, 75.1, severityWarning},
		{"heap above crit", heapLimits, 85.1, severityCritical},
		{"disk plenty free", diskFreeLimits, 100, severityNormal},
		{"disk at warn boundary", diskFreeLimits, 20, severityNormal},
		{"disk below warn", diskFreeLimits, 19.9, severityWarning},
		{"disk at crit boundary", diskFreeLimits, 10, severityWarning},
		{"disk below crit", diskFreeLimits, 9.9, severityCritical},
		{"disk full", diskFreeLimits, 0, severityCritical},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.l.classify(tc.v))
		})
	}
}
