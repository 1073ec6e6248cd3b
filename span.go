package main

import (
	"image"
	"sync"
)

// Span is a run of engraved columns in one row. The laser switches on at
// the left edge of column Start and off at the left edge of column End, so
// Start < End always holds.
type Span struct {
	Start, End int
}

// ExtractSpans thresholds row y of img and run-length encodes the dark
// pixels. A pixel is engraved when its luminance is below threshold. A run
// still open at the right edge closes at the row width.
func ExtractSpans(img *image.Gray, y int, threshold uint8) []Span {
	width := img.Rect.Dx()
	offset := (y - img.Rect.Min.Y) * img.Stride
	row := img.Pix[offset : offset+width]

	var spans []Span
	start := -1
	for x, lum := range row {
		on := lum < threshold
		if on && start == -1 {
			start = x
		} else if !on && start != -1 {
			spans = append(spans, Span{Start: start, End: x})
			start = -1
		}
	}
	if start != -1 {
		spans = append(spans, Span{Start: start, End: width})
	}

	return spans
}

// ExtractRows runs ExtractSpans over every row of img, top row first. Rows
// are independent, so with workers > 1 they are spread over that many
// goroutines; the result is in row order either way.
func ExtractRows(img *image.Gray, threshold uint8, workers int) [][]Span {
	height := img.Rect.Dy()
	rows := make([][]Span, height)

	if workers <= 1 || height < 2 {
		for y := 0; y < height; y++ {
			rows[y] = ExtractSpans(img, img.Rect.Min.Y+y, threshold)
		}
		return rows
	}

	workers = min(workers, height)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// Each worker owns the rows congruent to w, so no two
			// goroutines ever write the same slot.
			for y := w; y < height; y += workers {
				rows[y] = ExtractSpans(img, img.Rect.Min.Y+y, threshold)
			}
		}(w)
	}
	wg.Wait()

	return rows
}
