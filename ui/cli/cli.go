package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"jigsaw/src/puzzlelib"
	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/score"
)

type DrawFunc func(w io.Writer, gb *puzzlelib.GameBuilder)

type CLIProcessing struct {
	builder *puzzlelib.GameBuilder
	draw    DrawFunc
	in      io.Reader
	out     io.Writer
}

func NewCLI(b *puzzlelib.GameBuilder, draw DrawFunc) *CLIProcessing {
	return &CLIProcessing{builder: b, draw: draw, in: os.Stdin, out: os.Stdout}
}

// WithIO swaps stdin/stdout, mostly for tests.
func (c *CLIProcessing) WithIO(in io.Reader, out io.Writer) *CLIProcessing {
	c.in = in
	c.out = out
	return c
}

const help = "Commands: p <piece> <cell> place, r <piece> back to tray, s status, restart, h help, q quit."

// raw processing
// - type a command and press Enter
// - up arrow recalls the last command
// - q or Ctrl+C to exit
// - redraw board after every accepted command
func (c *CLIProcessing) Run() error {
	f, ok := c.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.RunLineMode()
	}
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return c.RunLineMode()
	}
	defer term.Restore(fd, oldState) //nolint:errcheck

	// raw mode does not translate \n
	out := c.out
	c.out = crlfWriter{w: out}
	defer func() { c.out = out }()

	r := bufio.NewReader(f)
	var inputBuf strings.Builder
	var last string

	c.redraw()
	fmt.Fprintf(c.out, "\n%s\n> ", help)

	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}

		if b == 3 { // Ctrl+C
			fmt.Fprintln(c.out, "\nInterrupted")
			return nil
		}
		if b == 0x1b { // escape sequence
			b1, err := r.ReadByte()
			if err != nil {
				continue
			}
			b2, err := r.ReadByte()
			if err != nil {
				continue
			}
			if b1 == '[' && b2 == 'A' && last != "" { // up arrow
				c.eraseInput(inputBuf.Len())
				inputBuf.Reset()
				inputBuf.WriteString(last)
				fmt.Fprint(c.out, last)
			}
			continue
		}
		if b == 127 || b == 8 { // backspace
			s := inputBuf.String()
			if s != "" {
				inputBuf.Reset()
				inputBuf.WriteString(s[:len(s)-1])
				fmt.Fprint(c.out, "\b \b")
			}
			continue
		}

		if b == '\r' || b == '\n' {
			s := strings.TrimSpace(inputBuf.String())
			inputBuf.Reset()
			fmt.Fprintln(c.out)
			if s == "" {
				fmt.Fprint(c.out, "> ")
				continue
			}
			last = s
			if c.execute(s) {
				return nil
			}
			fmt.Fprint(c.out, "> ")
			continue
		}

		if b >= 32 && b <= 126 {
			inputBuf.WriteByte(b)
			fmt.Fprintf(c.out, "%c", b)
			continue
		}
	}
}

func (c *CLIProcessing) RunLineMode() error {
	// fallback: basic line mode using bufio.Scanner
	scanner := bufio.NewScanner(c.in)
	c.redraw()
	fmt.Fprintln(c.out, help)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if c.execute(line) {
			return nil
		}
	}
	return scanner.Err()
}

// execute runs one command and reports whether the loop should stop.
func (c *CLIProcessing) execute(line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	c.builder.Tick()

	switch cmd {
	case "q", "quit", "exit":
		fmt.Fprintln(c.out, "Quitting")
		return true
	case "h", "help", "?":
		fmt.Fprintln(c.out, help)
	case "s", "status", "t":
		c.redraw()
	case "restart":
		if err := c.builder.RestartGame(); err != nil {
			fmt.Fprintf(c.out, "error restart: %v\n", err)
			return false
		}
		c.redraw()
	case "r", "remove":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "Usage: r <piece>")
			return false
		}
		id, err := parsePieceID(args[0])
		if err != nil {
			fmt.Fprintf(c.out, "Invalid piece: %s\n", args[0])
			return false
		}
		if !c.builder.RemovePiece(id) {
			fmt.Fprintf(c.out, "Piece %s is not on the board\n", id)
			return false
		}
		c.redraw()
	case "p", "place":
		if len(args) != 2 {
			fmt.Fprintln(c.out, "Usage: p <piece> <cell>")
			return false
		}
		id, err := parsePieceID(args[0])
		if err != nil {
			fmt.Fprintf(c.out, "Invalid piece: %s\n", args[0])
			return false
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(c.out, "Invalid cell: %s\n", args[1])
			return false
		}
		if !c.builder.PlacePiece(id, pos) {
			fmt.Fprintf(c.out, "Invalid placement: %s -> %d\n", id, pos)
			return false
		}
		c.redraw()
		if c.builder.Complete() {
			c.printVictory()
			return true
		}
	default:
		fmt.Fprintf(c.out, "Unknown command: %s\n", cmd)
	}
	return false
}

func (c *CLIProcessing) redraw() {
	c.draw(c.out, c.builder)
	c.printStatus()
}

func (c *CLIProcessing) printStatus() {
	placed, correct, total := c.builder.Progress()
	fmt.Fprintf(c.out, "Tier: %s  Time: %s  Moves: %d  Placed: %d/%d  Correct: %d\n",
		c.builder.Tier(), score.FormatTime(c.builder.Elapsed()), c.builder.Moves(), placed, total, correct)
	fmt.Fprintf(c.out, "Status: %s\n", statusString(c.builder.Status()))
}

func (c *CLIProcessing) printVictory() {
	res, ok := c.builder.Result()
	if !ok {
		return
	}
	fmt.Fprintln(c.out, "Solved!")
	fmt.Fprintf(c.out, "Time: %s  Moves: %d  Score: %d\n", score.FormatTime(res.ElapsedMs), res.Moves, res.Score)
	for _, id := range res.Achievements {
		if a, ok := score.Lookup(id); ok {
			fmt.Fprintf(c.out, "Achievement: %s (+%d) %s\n", a.Name, a.Points, a.Description)
		}
	}
	c.builder.WaitReports()
	if info, ok := c.builder.Rank(); ok {
		fmt.Fprintf(c.out, "Leaderboard rank: #%d\n", info.Rank)
	}
}

// parsePieceID accepts "3" or "piece-3".
func parsePieceID(s string) (base.PieceID, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(s), "piece-"))
	if err != nil || n < 0 {
		return "", fmt.Errorf("bad piece %q", s)
	}
	return base.PieceIDFor(n), nil
}

func (c *CLIProcessing) eraseInput(n int) {
	for i := 0; i < n; i++ {
		fmt.Fprint(c.out, "\b \b")
	}
}

func statusString(s base.GameStatus) string {
	switch s {
	case base.Waiting:
		return "Waiting"
	case base.Playing:
		return "Playing"
	case base.Solved:
		return "Solved"
	case base.InvalidGame:
		return "Invalid"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

type crlfWriter struct{ w io.Writer }

func (cw crlfWriter) Write(p []byte) (int, error) {
	_, err := cw.w.Write([]byte(strings.ReplaceAll(string(p), "\n", "\r\n")))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
