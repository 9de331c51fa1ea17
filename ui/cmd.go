package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"jigsaw/src/logx"
	"jigsaw/src/puzzlelib"
	"jigsaw/src/puzzlelib/base"
	"jigsaw/src/puzzlelib/grid"
	"jigsaw/src/puzzlelib/remote"
	"jigsaw/src/puzzlelib/score"
	"jigsaw/src/puzzlelib/slicer"
	clic "jigsaw/ui/cli"
	"jigsaw/ui/gui"
	"jigsaw/ui/gui/gbase"
	"jigsaw/ui/gui/gbase/gconf"
)

const logfile string = "jigsaw.log"

func GetLogger(file *os.File, c *cli.Command) *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString(c.String("level")),
		c.Bool("dev"),
		c.Bool("console"),
	)
	l.InitLogger(file)
	return l
}

func openLog() (*os.File, error) {
	file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error open logfile: %v", err)
	}
	return file, nil
}

// NewService returns the HTTP client when backend is set, otherwise an
// in-memory backend seeded with image under remote.LocalPuzzleID.
func NewService(backend, token, image string, tiers grid.Table) remote.Service {
	if backend != "" {
		return remote.NewHTTPClient(backend, sessionOpts(token)...)
	}
	m := remote.NewMemory(remote.WithTiers(tiers))
	if image != "" {
		m.AddImage(image)
	}
	return m
}

// sessionOpts carries a pre-issued backend token; it has no expiry on our side.
func sessionOpts(token string) []remote.HTTPOption {
	if token == "" {
		return nil
	}
	return []remote.HTTPOption{remote.WithSession(remote.Session{Token: token})}
}

func RunGUI(c *cli.Command) error {
	file, err := openLog()
	if err != nil {
		return err
	}
	defer file.Close()
	logger := GetLogger(file, c)
	defer logger.Sync() //nolint:errcheck

	conf, err := gconf.NewGUIConfig()
	if err != nil {
		logger.Errorf("error load config: %v", err)
		return err
	}
	if c.IsSet("scheme") {
		conf.Scheme = c.String("scheme")
	}
	if c.IsSet("tiers") {
		conf.Tiers = c.String("tiers")
	}
	if c.IsSet("backend") {
		conf.Backend = c.String("backend")
	}
	if c.IsSet("puzzle") {
		conf.Puzzle = c.String("puzzle")
	}
	if c.IsSet("player") {
		conf.Player = c.String("player")
	}
	if c.IsSet("redrag") {
		conf.BoardDrag = c.Bool("redrag")
	}

	tiers, err := grid.Resolve(conf.Tiers, conf.Scheme)
	if err != nil {
		logger.Errorf("error load tiers: %v", err)
		return err
	}
	svc := NewService(conf.Backend, c.String("token"), c.String("image"), tiers)
	gb := puzzlelib.NewGameBuilder(logger, puzzlelib.RealClock{},
		puzzlelib.WithTiers(tiers),
		puzzlelib.WithBoardDrag(conf.BoardDrag),
		puzzlelib.WithPlayer(conf.Player),
		puzzlelib.WithScoreReporter(svc, puzzlelib.DefaultReportTimeout),
	)
	g, err := gui.NewGUI(gb, svc, conf, logger)
	if err != nil {
		logger.Errorf("error init GUI: %v", err)
		return fmt.Errorf("error init GUI: %v", err)
	}
	return g.Run()
}

func RunCLI(ctx context.Context, c *cli.Command) error {
	file, err := openLog()
	if err != nil {
		return err
	}
	defer file.Close()
	logger := GetLogger(file, c)
	defer logger.Sync() //nolint:errcheck

	tiers, err := grid.Resolve(c.String("tiers"), c.String("scheme"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("error load tiers: %v", err), 1)
	}
	image := c.String("image")
	puzzleID := c.String("puzzle")
	difficulty := c.String("difficulty")
	svc := NewService(c.String("backend"), c.String("token"), image, tiers)

	opts := []puzzlelib.Option{
		puzzlelib.WithTiers(tiers),
		puzzlelib.WithBoardDrag(c.Bool("redrag")),
		puzzlelib.WithPlayer(c.String("player")),
		puzzlelib.WithScoreReporter(svc, puzzlelib.DefaultReportTimeout),
	}
	if puzzleID == "" && image != "" && c.String("backend") == "" {
		puzzleID = remote.LocalPuzzleID
	}
	gb := puzzlelib.NewGameBuilder(logger, puzzlelib.RealClock{}, opts...)

	switch {
	case puzzleID != "":
		_, err = gb.CreateFromPuzzle(ctx, svc, puzzleID, difficulty)
	case image != "":
		_, err = gb.CreateFromSource(ctx, difficulty, image)
	default:
		var tier grid.Tier
		if tier, err = tiers.Lookup(difficulty); err == nil {
			_, err = gb.CreateFromTiles(tier.Name, slicer.Placeholders(tier.Rows, tier.Cols, slicer.PlaceholderSize))
		}
	}
	if err != nil {
		logger.Errorf("error create game: %v", err)
		return cli.Exit(fmt.Sprintf("error create game: %v", err), 1)
	}

	timerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go gb.RunTimer(timerCtx, 100*time.Millisecond)

	draw := clic.PrintBoard
	if c.Bool("plain") {
		draw = clic.PrintPlain
	} else {
		clic.EnableANSI()
	}
	cl := clic.NewCLI(gb, draw)
	if c.Bool("line") {
		err = cl.RunLineMode()
	} else {
		err = cl.Run()
	}
	if err != nil {
		fmt.Printf("error jigsaw: %v\n", err)
	}
	return nil
}

func RunSlice(ctx context.Context, c *cli.Command) error {
	tiers, err := grid.Resolve(c.String("tiers"), c.String("scheme"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	tier, err := tiers.Lookup(c.String("difficulty"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	format, err := slicer.FormatFromString(c.String("format"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	img, err := slicer.Load(ctx, c.String("image"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	tiles, err := slicer.Slice(img, tier.Rows, tier.Cols)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	dir := filepath.Join(c.String("out"), tier.Name)
	paths, err := slicer.Export(dir, tiles, format)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Printf("%d pieces written to %s\n", len(paths), dir)
	return nil
}

func RunScore(_ context.Context, c *cli.Command) error {
	tiers, err := grid.Resolve(c.String("tiers"), c.String("scheme"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	tier, err := tiers.Lookup(c.String("difficulty"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	ms := c.Duration("time").Milliseconds()
	moves := c.Int("moves")
	points := score.ForTier(tier, ms, moves)
	fmt.Printf("%s  time %s  moves %d  score %d\n", tier, score.FormatTime(ms), moves, points)
	for _, id := range score.Achievements(tier, ms, moves, points) {
		a, _ := score.Lookup(id)
		fmt.Printf("  %-16s +%d\n", a.Name, a.Points)
	}
	return nil
}

func RunLeaderboard(ctx context.Context, c *cli.Command) error {
	if c.String("backend") == "" {
		return cli.Exit("leaderboard needs --backend", 1)
	}
	tf, err := remote.ParseTimeframe(c.String("timeframe"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	svc := remote.NewHTTPClient(c.String("backend"), sessionOpts(c.String("token"))...)
	entries, err := svc.FetchLeaderboard(ctx, remote.LeaderboardQuery{
		PuzzleID:   c.String("puzzle"),
		Difficulty: c.String("difficulty"),
		Timeframe:  tf,
		Limit:      c.Int("limit"),
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("error fetch leaderboard: %v", err), 1)
	}
	for _, e := range entries {
		fmt.Printf("%3d. %-16s %-20s %-8s %6d  %s  %d moves\n",
			e.Rank, e.User.Username, e.Puzzle.Title, e.Difficulty, e.Score, score.FormatTime(e.ElapsedMs), e.Moves)
	}
	return nil
}

func RunPuzzles(ctx context.Context, c *cli.Command) error {
	tiers, err := grid.Resolve(c.String("tiers"), c.String("scheme"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	svc := NewService(c.String("backend"), c.String("token"), c.String("image"), tiers)
	f := remote.PuzzleFilter{Category: c.String("category"), Status: c.String("status")}
	if c.IsSet("featured") {
		featured := c.Bool("featured")
		f.Featured = &featured
	}
	ps, err := svc.FetchPuzzles(ctx, f)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error fetch puzzles: %v", err), 1)
	}
	writePuzzles(os.Stdout, ps)
	return nil
}

func writePuzzles(w io.Writer, ps []base.Puzzle) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "no puzzles")
		return
	}
	for _, p := range ps {
		mark := " "
		if p.Featured {
			mark = "*"
		}
		levels := strings.Join(p.Difficulties, ",")
		if levels == "" {
			levels = "any"
		}
		fmt.Fprintf(w, "%s %-12s %-24s %-12s %s\n", mark, p.ID, p.Title, p.Category, levels)
	}
}

// RunLogin exchanges admin credentials for a token to pass as --token or
// JIGSAW_TOKEN.
func RunLogin(ctx context.Context, c *cli.Command) error {
	if c.String("backend") == "" {
		return cli.Exit("login needs --backend", 1)
	}
	password, err := readPassword(c.String("password"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	var auth remote.Authenticator = remote.NewHTTPClient(c.String("backend"))
	s, err := auth.Verify(ctx, remote.Credentials{Username: c.String("user"), Password: password})
	if err != nil {
		return cli.Exit(fmt.Sprintf("error login: %v", err), 1)
	}
	fmt.Println(s.Token)
	if !s.ExpiresAt.IsZero() {
		fmt.Fprintf(os.Stderr, "expires %s\n", s.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

// readPassword prompts on the terminal when the flag and env are empty.
func readPassword(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no password given")
	}
	fmt.Fprint(os.Stderr, "password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("error read password: %v", err)
	}
	return string(raw), nil
}

func RunTiers(_ context.Context, c *cli.Command) error {
	tiers, err := grid.Resolve(c.String("tiers"), c.String("scheme"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return tiers.EncodeYAML(os.Stdout)
}

func RunJigsaw() error {
	df := &cli.BoolFlag{
		Name:    "dev",
		Aliases: []string{"d"},
		Usage:   "dev encode log",
	}
	lf := &cli.StringFlag{
		Name:        "level",
		Aliases:     []string{"l"},
		Usage:       "level log",
		DefaultText: "info",
	}
	cf := &cli.BoolFlag{
		Name:    "console",
		Aliases: []string{"c"},
		Usage:   "console log",
	}
	tf := &cli.StringFlag{
		Name:  "tiers",
		Usage: "path to YAML tier table",
	}
	sf := &cli.StringFlag{
		Name:  "scheme",
		Usage: "built-in tier scheme: classic or totem",
		Value: "classic",
	}
	bf := &cli.StringFlag{
		Name:  "backend",
		Usage: "puzzle service base URL, offline when empty",
	}
	imf := &cli.StringFlag{
		Name:    "image",
		Aliases: []string{"i"},
		Usage:   "picture file or URL",
	}
	pzf := &cli.StringFlag{
		Name:  "puzzle",
		Usage: "puzzle id on the backend",
	}
	dif := &cli.StringFlag{
		Name:  "difficulty",
		Usage: "tier name",
		Value: "easy",
	}
	rf := &cli.BoolFlag{
		Name:  "redrag",
		Usage: "allow moving placed pieces",
	}
	tokf := &cli.StringFlag{
		Name:    "token",
		Usage:   "backend bearer token",
		Sources: cli.EnvVars("JIGSAW_TOKEN"),
	}
	plf := &cli.StringFlag{
		Name:  "player",
		Usage: "name sent with scores",
	}
	logff := []cli.Flag{df, lf, cf}
	tierff := []cli.Flag{tf, sf}

	guiff := append(append(append([]cli.Flag{}, logff...), tierff...), bf, tokf, imf, pzf, rf, plf)
	cliff := append(append(append([]cli.Flag{}, logff...), tierff...), bf, tokf, imf, pzf, dif, rf, plf,
		&cli.BoolFlag{Name: "plain", Usage: "no colours"},
		&cli.BoolFlag{Name: "line", Usage: "line mode instead of raw terminal"},
	)

	guiAction := func(ctx context.Context, c *cli.Command) error {
		if err := RunGUI(c); err != nil && !errors.Is(err, gbase.ErrExit) {
			fmt.Printf("error GUI: %v\n", err)
		}
		return nil
	}

	return (&cli.Command{
		Name:  "jigsaw",
		Usage: "jigsaw puzzle game",
		Commands: []*cli.Command{
			{
				Name:   "gui",
				Usage:  "play in a window",
				Flags:  guiff,
				Action: guiAction,
			},
			{
				Name:   "cli",
				Usage:  "play in the terminal",
				Flags:  cliff,
				Action: RunCLI,
			},
			{
				Name:  "slice",
				Usage: "cut a picture into piece files",
				Flags: append(append([]cli.Flag{}, tierff...), imf, dif,
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "pieces", Usage: "output directory"},
					&cli.StringFlag{Name: "format", Value: "jpeg", Usage: "jpeg or png"},
				),
				Action: RunSlice,
			},
			{
				Name:  "score",
				Usage: "compute the score of a finished game",
				Flags: append(append([]cli.Flag{}, tierff...), dif,
					&cli.DurationFlag{Name: "time", Aliases: []string{"t"}, Usage: "elapsed time, e.g. 1m20s"},
					&cli.IntFlag{Name: "moves", Aliases: []string{"m"}},
				),
				Action: RunScore,
			},
			{
				Name:  "leaderboard",
				Usage: "print the leaderboard",
				Flags: []cli.Flag{bf, tokf, pzf,
					&cli.StringFlag{Name: "difficulty", Usage: "tier name, all when empty"},
					&cli.StringFlag{Name: "timeframe", Value: string(remote.AllTime), Usage: "daily, weekly, monthly or all-time"},
					&cli.IntFlag{Name: "limit", Value: remote.DefaultLimit},
				},
				Action: RunLeaderboard,
			},
			{
				Name:  "puzzles",
				Usage: "list the puzzle catalogue",
				Flags: append(append([]cli.Flag{}, tierff...), bf, tokf, imf,
					&cli.StringFlag{Name: "category", Usage: "only this category"},
					&cli.StringFlag{Name: "status", Usage: "published (default), draft or all"},
					&cli.BoolFlag{Name: "featured", Usage: "only featured, or with =false only the rest"},
				),
				Action: RunPuzzles,
			},
			{
				Name:  "login",
				Usage: "print an admin token for --token",
				Flags: []cli.Flag{bf,
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "admin email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "admin password, prompted when empty", Sources: cli.EnvVars("JIGSAW_PASSWORD")},
				},
				Action: RunLogin,
			},
			{
				Name:   "tiers",
				Usage:  "print the tier table as YAML",
				Flags:  tierff,
				Action: RunTiers,
			},
		},
		Action: guiAction,
	}).Run(context.Background(), os.Args)
}
