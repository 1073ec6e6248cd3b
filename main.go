package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
)

// flagOutput receives usage and flag errors.
var flagOutput io.Writer = os.Stderr

type options struct {
	input        string
	output       string
	intermediate string
	quiet        bool
}

func main() {
	params, opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.quiet {
		level = slog.LevelWarn
	}
	SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(params, opts, os.Stdout); err != nil {
		log.Fatalf("lasergrave: %v", err)
	}
}

func parseFlags(args []string) (Params, options, error) {
	p := DefaultParams()
	var opts options

	fs := flag.NewFlagSet("lasergrave", flag.ContinueOnError)
	fs.SetOutput(flagOutput)
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: lasergrave [flags] <image-file>\n\n")
		fmt.Fprintf(out, "Convert a raster or SVG image into laser engraving G-code.\n")
		fmt.Fprintf(out, "G-code goes to stdout, diagnostics to stderr.\n\n")
		fmt.Fprintf(out, "Flags:\n")
		fs.PrintDefaults()
	}

	// Import options.
	fs.Float64Var(&p.DPI, "dpi", p.DPI, "Input resolution in dots per inch; change it to scale the image")
	fs.Func("threshold", "Luminance `level` (0-255); darker pixels are engraved (default 128)", func(s string) error {
		v, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return errors.New("must be an integer between 0 and 255")
		}
		p.Threshold = uint8(v)
		return nil
	})
	fs.TextVar(&p.Interp, "interp", p.Interp, "Resampling filter: nearest, gaussian, lanczos3 or cubic")

	// Output options.
	fs.UintVar(&p.LinesPerMM, "lines-per-mm", p.LinesPerMM, "Engraved lines per mm")
	fs.UintVar(&p.Feed, "feed", p.Feed, "Feed rate in mm/min")
	fs.UintVar(&p.Power, "power", p.Power, "Laser power for engraved spans")
	fs.TextVar(&p.Motion, "motion", p.Motion, "Horizontal motion: bi (serpentine) or uni (less backlash)")
	fs.Func("precision", "Force G-code coordinates to `n` decimal places (default derived from steps/mm)", func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > MaxPrecision {
			return fmt.Errorf("must be an integer between 0 and %d", MaxPrecision)
		}
		p.Precision = v
		return nil
	})
	fs.BoolVar(&p.QuantizeHorizontal, "quantize-horizontal", false, "Reduce horizontal resolution to match lines-per-mm")
	fs.StringVar(&opts.output, "output", "", "Write G-code to this file instead of stdout")

	// Machine options.
	fs.UintVar(&p.StepsPerMM, "steps-per-mm", p.StepsPerMM, "Machine steps per mm")

	// Debugging and tuning.
	fs.StringVar(&opts.intermediate, "save-intermediate", "", "Write the resampled grayscale image to this path")
	fs.IntVar(&p.Workers, "workers", p.Workers, "Goroutines used to threshold rows")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only log warnings and errors")

	if err := fs.Parse(args); err != nil {
		return p, opts, err
	}
	if fs.NArg() != 1 {
		err := errors.New("expected exactly one image file")
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()
		return p, opts, err
	}
	opts.input = fs.Arg(0)

	return p, opts, nil
}

// run executes the whole conversion. Configuration errors are reported
// before any file is read.
func run(p Params, opts options, stdout io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	img, err := LoadImage(opts.input, p.DPI)
	if err != nil {
		return err
	}
	Logger().Info("loaded image", "path", opts.input, "pixels", describeImage(img))

	layout, err := ComputeLayout(img.Rect.Dx(), img.Rect.Dy(), p)
	if err != nil {
		return err
	}
	Logger().Info("image size",
		"width_mm", fmt.Sprintf("%.3f", layout.WidthMM),
		"height_mm", fmt.Sprintf("%.3f", layout.HeightMM))
	Logger().Info("in steps", "x", layout.StepsX, "y", layout.StepsY)
	Logger().Info("engraving lines",
		"lines", layout.LineCount,
		"pixels_per_line", fmt.Sprintf("%.3f", layout.PixelsPerLine()))

	axes := "vertically"
	if p.QuantizeHorizontal {
		axes = "vertically and horizontally"
	}
	Logger().Info("scaling "+axes, "interp", p.Interp, "output", fmt.Sprintf("%dx%d", layout.Width, layout.LineCount))
	resized := Resample(img, layout.Width, layout.LineCount, p.Interp)

	if opts.intermediate != "" {
		if err := SaveImage(opts.intermediate, resized); err != nil {
			return err
		}
	}

	Logger().Info("computing thresholded image spans", "threshold", p.Threshold, "workers", p.Workers)
	rows := ExtractRows(resized, p.Threshold, p.Workers)

	tp := Plan(rows, NewPlanConfig(layout, p))
	Logger().Info("planned toolpath", "rows", len(tp.Rows))

	if opts.output == "" {
		return WriteGCode(stdout, tp, p.Feed, p.Power)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return &IOError{Op: "creating output file", Path: opts.output, Err: err}
	}
	if err := WriteGCode(f, tp, p.Feed, p.Power); err != nil {
		f.Close()
		return &IOError{Op: "writing output file", Path: opts.output, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "writing output file", Path: opts.output, Err: err}
	}
	return nil
}
