package main

import (
	"github.com/fatih/color"
	"github.com/seoward/seoward/internal/types"
)

// Shared color helpers for command output.

func severitySprint(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return color.New(color.FgRed, color.Bold).Sprint(string(sev))
	case types.SeverityDrifting:
		return color.New(color.FgRed).Sprint(string(sev))
	case types.SeverityWarning:
		return color.New(color.FgYellow).Sprint(string(sev))
	default:
		return color.New(color.FgGreen).Sprint(string(sev))
	}
}

func gradeSprint(grade types.Grade) string {
	switch grade {
	case types.GradeA, types.GradeB:
		return color.New(color.FgGreen, color.Bold).Sprint(string(grade))
	case types.GradeC:
		return color.New(color.FgYellow, color.Bold).Sprint(string(grade))
	default:
		return color.New(color.FgRed, color.Bold).Sprint(string(grade))
	}
}

func confidenceSprint(level types.ConfidenceLevel) string {
	switch level {
	case types.ConfidenceHigh:
		return color.New(color.FgGreen).Sprint(string(level))
	case types.ConfidenceMedium:
		return color.New(color.FgYellow).Sprint(string(level))
	default:
		return color.New(color.FgRed).Sprint(string(level))
	}
}

func statusSprint(status types.ActionStatus) string {
	switch status {
	case types.StatusAllowed:
		return color.New(color.FgGreen).Sprint(string(status))
	case types.StatusDenied:
		return color.New(color.FgRed).Sprint(string(status))
	default:
		return color.New(color.FgYellow).Sprint(string(status))
	}
}
