package model

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=RunMode -trimprefix=RunMode -output=run_mode_string.go

// RunMode is the task the model is started for. Only profiling changes the
// behavior of this package.
type RunMode int

const (
	_ RunMode = iota

	RunModeBasic
	RunModeEstimation
	RunModeProfiling
	RunModeMCMC
	RunModeProjection
	RunModeSimulation
)

// ParseRunMode parses a run mode name case-insensitively. Empty means basic.
func ParseRunMode(s string) (RunMode, error) {
	if s == "" {
		return RunModeBasic, nil
	}

	for m := RunModeBasic; m <= RunModeSimulation; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}

	return 0, fmt.Errorf("unknown run mode %q", s)
}
