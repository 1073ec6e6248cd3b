package main

import (
	"math"
	"strconv"
)

// Move is one engraving stroke in machine millimeters. The laser travels
// from From to To, so To < From on a right-to-left row.
type Move struct {
	From, To float64
}

// RowPlan is a single engraved scan line.
type RowPlan struct {
	Index   int // 0 is the bottom line
	Y       float64
	Reverse bool // right to left
	Moves   []Move
}

// Toolpath is the planned engraving. Every coordinate in it is already
// rounded to Precision fractional digits.
type Toolpath struct {
	Precision int
	Rows      []RowPlan
}

// PlanConfig carries what the planner needs from the layout and params.
type PlanConfig struct {
	LinePitch  float64 // mm per output line
	PixelPitch float64 // mm per output column
	Motion     Motion
	Precision  int // resolved, never AutoPrecision
}

// NewPlanConfig resolves the planner settings for a layout.
func NewPlanConfig(l Layout, p Params) PlanConfig {
	cfg := PlanConfig{
		LinePitch:  l.LinePitch,
		PixelPitch: l.PixelPitch,
		Motion:     p.Motion,
		Precision:  p.Precision,
	}
	if p.Precision == AutoPrecision {
		cfg.Precision = DerivePrecision(p.StepsPerMM)
		Logger().Info("derived precision from step size",
			"steps_per_mm", p.StepsPerMM, "decimal_places", cfg.Precision)
	} else {
		Logger().Info("forcing precision", "decimal_places", cfg.Precision)
	}
	return cfg
}

// DerivePrecision returns the number of fractional decimal digits needed to
// write one machine step, 1/stepsPerMM mm. The reciprocal terminates only
// when stepsPerMM = 2^a·5^b, in which case it takes exactly max(a, b)
// digits; anything else falls back to the shortest decimal that round-trips
// through float64.
func DerivePrecision(stepsPerMM uint) int {
	if stepsPerMM == 0 {
		return 0
	}

	n := stepsPerMM
	twos, fives := 0, 0
	for n%2 == 0 {
		n /= 2
		twos++
	}
	for n%5 == 0 {
		n /= 5
		fives++
	}
	if n == 1 {
		return max(twos, fives)
	}

	s := strconv.FormatFloat(1/float64(stepsPerMM), 'f', -1, 64)
	return len(s) - len("0.")
}

// Plan turns per-row spans into scan lines. rows is in image order, top
// row first; the plan is bottom line first, since engraving starts at the
// machine origin. Blank rows are skipped and do not flip the serpentine
// direction.
func Plan(rows [][]Span, cfg PlanConfig) Toolpath {
	round := rounder(cfg.Precision)
	halfLine := cfg.LinePitch / 2

	tp := Toolpath{Precision: cfg.Precision}
	reverse := false
	n := len(rows)
	for i := 0; i < n; i++ {
		spans := rows[n-1-i]
		if len(spans) == 0 {
			continue
		}

		rtl := cfg.Motion == MotionBi && reverse
		moves := make([]Move, len(spans))
		for j, s := range spans {
			sx := round(float64(s.Start) * cfg.PixelPitch)
			ex := round(float64(s.End) * cfg.PixelPitch)
			if rtl {
				moves[len(spans)-1-j] = Move{From: ex, To: sx}
			} else {
				moves[j] = Move{From: sx, To: ex}
			}
		}

		tp.Rows = append(tp.Rows, RowPlan{
			Index:   i,
			Y:       round(float64(i)*cfg.LinePitch + halfLine),
			Reverse: rtl,
			Moves:   moves,
		})
		reverse = !reverse
	}

	return tp
}

func rounder(dp int) func(float64) float64 {
	scale := math.Pow10(dp)
	return func(f float64) float64 {
		return math.Round(f*scale) / scale
	}
}
