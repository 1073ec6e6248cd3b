package main

import (
	"fmt"
	"runtime"
)

// Interp selects the filter used to resample the input onto the output
// line grid. It only matters when lines don't map exactly onto pixels.
type Interp int

const (
	InterpNearest Interp = iota
	InterpGaussian
	InterpLanczos3
	InterpCubic
)

var interpNames = [...]string{
	InterpNearest:  "nearest",
	InterpGaussian: "gaussian",
	InterpLanczos3: "lanczos3",
	InterpCubic:    "cubic",
}

func (k Interp) String() string {
	if k < 0 || int(k) >= len(interpNames) {
		return fmt.Sprintf("Interp(%d)", int(k))
	}
	return interpNames[k]
}

func (k Interp) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Interp) UnmarshalText(text []byte) error {
	for i, name := range interpNames {
		if string(text) == name {
			*k = Interp(i)
			return nil
		}
	}
	return fmt.Errorf("unknown interpolation %q (want nearest, gaussian, lanczos3 or cubic)", text)
}

// Motion is the horizontal motion strategy.
type Motion int

const (
	// MotionUni always scans left to right. Slower, but hides X backlash.
	MotionUni Motion = iota
	// MotionBi alternates direction on every engraved row.
	MotionBi
)

func (m Motion) String() string {
	switch m {
	case MotionUni:
		return "uni"
	case MotionBi:
		return "bi"
	}
	return fmt.Sprintf("Motion(%d)", int(m))
}

func (m Motion) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Motion) UnmarshalText(text []byte) error {
	switch string(text) {
	case "uni":
		*m = MotionUni
	case "bi":
		*m = MotionBi
	default:
		return fmt.Errorf("unknown motion %q (want uni or bi)", text)
	}
	return nil
}

// AutoPrecision asks the planner to derive the decimal precision from the
// machine step size.
const AutoPrecision = -1

// MaxPrecision is the most fractional digits a coordinate may carry.
const MaxPrecision = 255

// Params holds every knob of a conversion run.
type Params struct {
	DPI                float64 // input resolution, dots per inch
	Threshold          uint8   // luminance below this is engraved
	Interp             Interp
	LinesPerMM         uint
	Feed               uint // mm/min
	Power              uint
	Motion             Motion
	Precision          int // fractional digits, or AutoPrecision
	QuantizeHorizontal bool
	StepsPerMM         uint
	Workers            int // span extraction goroutines; <= 1 runs inline
}

// DefaultParams returns the parameters used when no flags are given.
func DefaultParams() Params {
	return Params{
		DPI:        300,
		Threshold:  128,
		Interp:     InterpGaussian,
		LinesPerMM: 8,
		Feed:       1000,
		Power:      1000,
		Motion:     MotionBi,
		Precision:  AutoPrecision,
		StepsPerMM: 160,
		Workers:    runtime.NumCPU(),
	}
}

// Validate checks the numeric constraints that must hold before any image
// is touched.
func (p Params) Validate() error {
	if !(p.DPI > 0) {
		return &ConfigError{Field: "dpi", Msg: fmt.Sprintf("must be positive, but was set as: %v", p.DPI)}
	}
	if p.StepsPerMM == 0 {
		return &ConfigError{Field: "steps-per-mm", Msg: "must not be zero"}
	}
	if p.LinesPerMM == 0 {
		return &ConfigError{Field: "lines-per-mm", Msg: "must not be zero"}
	}
	if p.StepsPerMM%p.LinesPerMM != 0 {
		return &ConfigError{
			Field: "lines-per-mm",
			Msg:   fmt.Sprintf("can't evenly divide %d steps/mm into %d lines", p.StepsPerMM, p.LinesPerMM),
		}
	}
	if p.Feed == 0 {
		return &ConfigError{Field: "feed", Msg: "must not be zero"}
	}
	if p.Power == 0 {
		return &ConfigError{Field: "power", Msg: "must not be zero"}
	}
	if p.Precision < AutoPrecision {
		return &ConfigError{Field: "precision", Msg: fmt.Sprintf("must not be negative, but was set as: %d", p.Precision)}
	}
	if p.Precision > MaxPrecision {
		return &ConfigError{Field: "precision", Msg: fmt.Sprintf("must be at most %d, but was set as: %d", MaxPrecision, p.Precision)}
	}
	if p.Interp < InterpNearest || p.Interp > InterpCubic {
		return &ConfigError{Field: "interp", Msg: fmt.Sprintf("unknown interpolation %v", p.Interp)}
	}
	return nil
}

// StepsPerLine is the number of machine steps covered by one output line.
// Only meaningful on validated parameters.
func (p Params) StepsPerLine() uint {
	return p.StepsPerMM / p.LinesPerMM
}
