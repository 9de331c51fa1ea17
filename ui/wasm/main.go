package main

import (
	"fmt"

	"jigsaw/src/logx"
	"jigsaw/src/puzzlelib"
	"jigsaw/src/puzzlelib/grid"
	"jigsaw/src/puzzlelib/remote"
	"jigsaw/ui/gui"
	"jigsaw/ui/gui/gbase/gconf"
)

func GetLogger() *logx.Logx {
	l := logx.NewLogx(
		logx.GetLoggerLevelByString("debug"),
		false,
		true,
	)
	l.InitLogger(nil)
	return l
}

// RunGUI plays in the browser, offline unless the saved config names a backend.
func RunGUI() error {
	logger := GetLogger()
	conf, err := gconf.NewGUIConfig()
	if err != nil {
		return fmt.Errorf("error load config: %v", err)
	}
	tiers, err := grid.Scheme(conf.Scheme)
	if err != nil {
		return err
	}

	var svc remote.Service = remote.NewMemory(remote.WithTiers(tiers))
	if conf.Backend != "" {
		svc = remote.NewHTTPClient(conf.Backend)
	}
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

func main() {
	if err := RunGUI(); err != nil {
		fmt.Println(err)
	}
}
