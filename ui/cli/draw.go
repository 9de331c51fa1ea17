package cli

import (
	"fmt"
	"io"
	"strings"

	"jigsaw/src/puzzlelib"
)

const (
	reset   = "\033[0m"
	greenBg = "\033[42m"
	redBg   = "\033[41m"
	darkBg  = "\033[100m"
	whiteF  = "\033[97m"
	blackF  = "\033[30m"
	dimF    = "\033[90m"
)

// PrintBoard draws the grid with the piece number in each occupied cell:
// green when the piece sits at its home, red when it does not. Empty cells
// show their own index dimmed.
func PrintBoard(w io.Writer, gb *puzzlelib.GameBuilder) {
	tier := gb.Tier()
	fmt.Fprintln(w)
	for r := 0; r < tier.Rows; r++ {
		fmt.Fprint(w, "  ")
		for c := 0; c < tier.Cols; c++ {
			pos := r*tier.Cols + c
			p, ok := gb.PieceAt(pos)
			switch {
			case !ok:
				fmt.Fprintf(w, "%s%s %3d %s", darkBg, dimF, pos, reset)
			case p.IsCorrect():
				fmt.Fprintf(w, "%s%s %3d %s", greenBg, blackF, p.Correct, reset)
			default:
				fmt.Fprintf(w, "%s%s %3d %s", redBg, whiteF, p.Correct, reset)
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	PrintTray(w, gb)
}

func PrintTray(w io.Writer, gb *puzzlelib.GameBuilder) {
	tray := gb.Tray()
	if len(tray) == 0 {
		fmt.Fprintln(w, "Tray: empty")
		return
	}
	ids := make([]string, 0, len(tray))
	for _, p := range tray {
		ids = append(ids, fmt.Sprint(p.Correct))
	}
	fmt.Fprintf(w, "Tray: %s\n", strings.Join(ids, " "))
}

// PrintPlain is PrintBoard without colours, for dumb terminals and logs.
func PrintPlain(w io.Writer, gb *puzzlelib.GameBuilder) {
	tier := gb.Tier()
	fmt.Fprintln(w)
	for r := 0; r < tier.Rows; r++ {
		fmt.Fprint(w, "  ")
		for c := 0; c < tier.Cols; c++ {
			pos := r*tier.Cols + c
			p, ok := gb.PieceAt(pos)
			switch {
			case !ok:
				fmt.Fprint(w, "[  .]")
			case p.IsCorrect():
				fmt.Fprintf(w, "[%3d]", p.Correct)
			default:
				fmt.Fprintf(w, "[%3d!", p.Correct)
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	PrintTray(w, gb)
}
