// croissant is a headless workbench for chess game trees. It reads a game
// from a PGN file, a FEN position or a saved session, plays extra moves on
// top, prints the main line with the final position, and can render the
// board to SVG or keep the game as a named session on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/alextaconet/en-croissant/config"
	"github.com/alextaconet/en-croissant/game"
	"github.com/alextaconet/en-croissant/image"
	"github.com/alextaconet/en-croissant/pgn"
	"github.com/alextaconet/en-croissant/session"
)

var (
	configPath  = flag.String("config", "", "path to a config file")
	pgnFile     = flag.String("pgn", "", "read the game from this PGN file")
	fenStart    = flag.String("fen", "", "start from this FEN position")
	moveLine    = flag.String("line", "", "space separated moves to play from the start")
	svgFile     = flag.String("svg", "", "write the current position to this SVG file")
	saveName    = flag.String("save", "", "save the game as a session with this name")
	loadID      = flag.String("load", "", "resume the session with this id")
	sessionsDir = flag.String("sessions-dir", "", "session directory (overrides the config)")
)

func main() {
	flag.Parse()

	logger := newLogger()
	if err := run(logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func run(log *zap.SugaredLogger) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	dir := cfg.SessionsDir
	if *sessionsDir != "" {
		dir = *sessionsDir
	}

	var store *session.FileStore
	if *loadID != "" || *saveName != "" {
		if store, err = session.NewFileStore(dir, log); err != nil {
			return err
		}
	}

	ctx := context.Background()

	g, err := buildGame(ctx, cfg, store)
	if err != nil {
		return err
	}

	if *moveLine != "" {
		if err := g.PushMoves(strings.Fields(*moveLine), nil); err != nil {
			return fmt.Errorf("play line: %w", err)
		}
	}

	printGame(g)

	if *svgFile != "" {
		if err := writeSVG(g, *svgFile); err != nil {
			return err
		}
		log.Infof("board written to %s", *svgFile)
	}

	if *saveName != "" {
		st := session.Snapshot(g, *saveName)
		if err := store.Put(ctx, st); err != nil {
			return err
		}
		fmt.Printf("session %q saved as %s\n", st.Name, st.ID)
	}

	return nil
}

// buildGame resolves the starting game, preferring a saved session over a
// PGN file over a bare FEN position.
func buildGame(ctx context.Context, cfg *config.Config, store *session.FileStore) (*game.Game, error) {
	switch {
	case *loadID != "":
		st, err := store.Get(ctx, *loadID)
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", *loadID, err)
		}
		return session.Restore(st)
	case *pgnFile != "":
		f, err := os.Open(*pgnFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		g, err := pgn.ParseReader(f, pgn.MaxBytes(cfg.ParseMaxBytes), pgn.MaxDepth(cfg.ParseMaxDepth))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", *pgnFile, err)
		}
		return g, nil
	case *fenStart != "":
		opt, err := game.FromFEN(*fenStart)
		if err != nil {
			return nil, fmt.Errorf("bad position %q: %w", *fenStart, err)
		}
		return game.New(opt), nil
	default:
		return game.New(), nil
	}
}

func printGame(g *game.Game) {
	line := g.MainLine()
	end := line[len(line)-1]
	if movetext := pgn.EncodePath(g, end); movetext != "" {
		fmt.Println(movetext)
	}
	fmt.Println(end.Position().String())
}

func writeSVG(g *game.Game, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := image.SVG(f, g.Position()); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
