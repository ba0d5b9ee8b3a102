// Package like interprets the like-icon signal from a screenshot.
package like

import "strings"

// Default darkness bands, calibrated against the wide like-icon crop of a
// YouTube Shorts screenshot. Pixels darker than the threshold count toward
// the ratio.
const (
	DefaultFilledMin  = 0.06
	DefaultOutlineMax = 0.015
	DefaultCenterMin  = 0.12
)

// Interpreter converts darkness ratios or OCR text into a like outcome.
type Interpreter struct {
	// FilledMin is the whole-crop dark ratio at or above which the icon is
	// definitely filled (liked).
	FilledMin float64
	// OutlineMax is the whole-crop dark ratio at or below which only the
	// outline is present (not liked).
	OutlineMax float64
	// CenterMin decides the ambiguous band using the center-region ratio.
	CenterMin float64
}

// NewInterpreter creates an Interpreter; non-positive fields get defaults.
func NewInterpreter(filledMin, outlineMax, centerMin float64) Interpreter {
	if filledMin <= 0 {
		filledMin = DefaultFilledMin
	}
	if outlineMax <= 0 {
		outlineMax = DefaultOutlineMax
	}
	if centerMin <= 0 {
		centerMin = DefaultCenterMin
	}
	return Interpreter{FilledMin: filledMin, OutlineMax: outlineMax, CenterMin: centerMin}
}

// FromDarkness resolves the outcome from the whole-crop ratio, falling back
// to the center-region ratio inside the ambiguous band.
func (i Interpreter) FromDarkness(whole, center float64) bool {
	if whole >= i.FilledMin {
		return true
	}
	if whole <= i.OutlineMax {
		return false
	}
	return center >= i.CenterMin
}

// FromText interprets OCR text of the like panel. "liked" means liked,
// "like" without "liked" means not liked, anything else is unknown (nil).
// Unknown is a distinct outcome and must not be coerced to false.
func (i Interpreter) FromText(lines []string) *bool {
	joined := strings.ToLower(strings.Join(lines, " "))
	switch {
	case strings.Contains(joined, "liked"):
		return ptr(true)
	case strings.Contains(joined, "like"):
		return ptr(false)
	default:
		return nil
	}
}

func ptr(b bool) *bool { return &b }
