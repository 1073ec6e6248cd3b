package main

import (
	"errors"
	"io"
	"testing"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		field  string // empty when valid
	}{
		{"defaults", func(p *Params) {}, ""},
		{"forced precision", func(p *Params) { p.Precision = 0 }, ""},
		{"one line per mm", func(p *Params) { p.LinesPerMM = 1 }, ""},
		{"zero dpi", func(p *Params) { p.DPI = 0 }, "dpi"},
		{"negative dpi", func(p *Params) { p.DPI = -1 }, "dpi"},
		{"zero steps", func(p *Params) { p.StepsPerMM = 0 }, "steps-per-mm"},
		{"zero lines", func(p *Params) { p.LinesPerMM = 0 }, "lines-per-mm"},
		{"uneven lines", func(p *Params) { p.LinesPerMM = 3 }, "lines-per-mm"},
		{"zero feed", func(p *Params) { p.Feed = 0 }, "feed"},
		{"zero power", func(p *Params) { p.Power = 0 }, "power"},
		{"negative precision", func(p *Params) { p.Precision = -2 }, "precision"},
		{"max precision", func(p *Params) { p.Precision = MaxPrecision }, ""},
		{"precision too large", func(p *Params) { p.Precision = 400 }, "precision"},
		{"bad interp", func(p *Params) { p.Interp = Interp(9) }, "interp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()

			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestStepsPerLine(t *testing.T) {
	if got := DefaultParams().StepsPerLine(); got != 20 {
		t.Errorf("StepsPerLine() = %d, want 20", got)
	}
}

func TestInterpText(t *testing.T) {
	for _, name := range []string{"nearest", "gaussian", "lanczos3", "cubic"} {
		var k Interp
		if err := k.UnmarshalText([]byte(name)); err != nil {
			t.Errorf("UnmarshalText(%q) error = %v", name, err)
			continue
		}
		if k.String() != name {
			t.Errorf("UnmarshalText(%q).String() = %q", name, k.String())
		}
	}

	var k Interp
	if err := k.UnmarshalText([]byte("bilinear")); err == nil {
		t.Error("UnmarshalText(bilinear) error = nil, want error")
	}
}

func TestMotionText(t *testing.T) {
	var m Motion
	if err := m.UnmarshalText([]byte("uni")); err != nil || m != MotionUni {
		t.Errorf("UnmarshalText(uni) = %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("bi")); err != nil || m != MotionBi {
		t.Errorf("UnmarshalText(bi) = %v, %v", m, err)
	}
	if err := m.UnmarshalText([]byte("both")); err == nil {
		t.Error("UnmarshalText(both) error = nil, want error")
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	p, opts, err := parseFlags([]string{"in.png"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	want := DefaultParams()
	if p != want {
		t.Errorf("parseFlags() params = %+v, want %+v", p, want)
	}
	if opts.input != "in.png" {
		t.Errorf("input = %q, want in.png", opts.input)
	}
}

func TestParseFlags(t *testing.T) {
	p, opts, err := parseFlags([]string{
		"-dpi", "600",
		"-threshold", "200",
		"-interp", "lanczos3",
		"-lines-per-mm", "10",
		"-feed", "3000",
		"-power", "255",
		"-motion", "uni",
		"-precision", "2",
		"-quantize-horizontal",
		"-steps-per-mm", "100",
		"-save-intermediate", "mid.png",
		"-output", "out.gcode",
		"-workers", "3",
		"-quiet",
		"art.svg",
	})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	want := Params{
		DPI:                600,
		Threshold:          200,
		Interp:             InterpLanczos3,
		LinesPerMM:         10,
		Feed:               3000,
		Power:              255,
		Motion:             MotionUni,
		Precision:          2,
		QuantizeHorizontal: true,
		StepsPerMM:         100,
		Workers:            3,
	}
	if p != want {
		t.Errorf("parseFlags() params = %+v, want %+v", p, want)
	}

	wantOpts := options{input: "art.svg", output: "out.gcode", intermediate: "mid.png", quiet: true}
	if opts != wantOpts {
		t.Errorf("parseFlags() options = %+v, want %+v", opts, wantOpts)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"a.png", "b.png"},
		{"-threshold", "256", "in.png"},
		{"-threshold", "-1", "in.png"},
		{"-precision", "-1", "in.png"},
		{"-precision", "256", "in.png"},
		{"-interp", "bilinear", "in.png"},
		{"-motion", "sideways", "in.png"},
	}

	for _, args := range tests {
		if _, _, err := parseFlagsQuiet(args); err == nil {
			t.Errorf("parseFlags(%q) error = nil, want error", args)
		}
	}
}

// parseFlagsQuiet runs parseFlags with usage output discarded.
func parseFlagsQuiet(args []string) (Params, options, error) {
	restore := flagOutput
	flagOutput = io.Discard
	defer func() { flagOutput = restore }()
	return parseFlags(args)
}
