package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

const eol = "\r\n"

// WriteGCode serializes tp as absolute-positioning G-code. Every line ends
// in CRLF and coordinates carry exactly tp.Precision fractional digits.
func WriteGCode(w io.Writer, tp Toolpath, feed, power uint) error {
	bw := bufio.NewWriter(w)
	coord := func(v float64) string {
		return strconv.FormatFloat(v, 'f', tp.Precision, 64)
	}

	bw.WriteString("G90" + eol)
	fmt.Fprintf(bw, "G0 X0 Y0 F%d"+eol, feed)
	bw.WriteString("M3 S0" + eol)

	for _, row := range tp.Rows {
		if len(row.Moves) == 0 {
			continue
		}

		dir := "->"
		if row.Reverse {
			dir = "<-"
		}
		fmt.Fprintf(bw, "( row %d: %s )"+eol, row.Index, dir)

		y := coord(row.Y)
		for i, m := range row.Moves {
			// Y is modal; only the first rapid of a row sets it.
			if i == 0 {
				fmt.Fprintf(bw, "G0 X%s Y%s S0"+eol, coord(m.From), y)
			} else {
				fmt.Fprintf(bw, "G0 X%s S0"+eol, coord(m.From))
			}
			fmt.Fprintf(bw, "G1 X%s S%d"+eol, coord(m.To), power)
		}
	}

	bw.WriteString("M5" + eol)
	return bw.Flush()
}
