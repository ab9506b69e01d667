// ChessRules - a two-player chess board built with Ebitengine
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/chessrules/internal/storage"
	"github.com/hailam/chessrules/internal/ui"
)

var (
	fenFlag = flag.String("fen", "", "start from this FEN instead of the standard position")
	dbFlag  = flag.String("db", "", "database directory (default: platform data dir)")
)

func main() {
	flag.Parse()

	var (
		store *storage.Storage
		err   error
	)
	if *dbFlag != "" {
		store, err = storage.Open(*dbFlag)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	game, err := ui.NewGame(*fenFlag, store)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("ChessRules")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Print(err)
	}
}
