package main

import (
	"flag"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/console"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	fenFlag   = flag.String("fen", "", "start from this FEN instead of the standard position")
	dbFlag    = flag.String("db", "", "database directory (default: platform data dir)")
	memFlag   = flag.Bool("memory", false, "keep saved games in memory only")
	logFlag   = flag.String("log", "", "write log output to this file")
	plainFlag = flag.Bool("no-color", false, "disable coloured output")
)

func main() {
	flag.Parse()

	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
		log.SetPrefix("[chessplay-cli] ")
	}
	if *plainFlag {
		color.NoColor = true
	}

	store, err := openStorage()
	if err != nil {
		log.Printf("Warning: storage unavailable: %v (save/load disabled)", err)
	}
	if store != nil {
		defer store.Close()
	}

	c := console.New(os.Stdout, store)
	if *fenFlag != "" {
		g, err := board.NewGameFromFEN(*fenFlag)
		if err != nil {
			log.Fatal(err)
		}
		c.SetGame(g)
	}

	if err := c.Run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}

func openStorage() (*storage.Storage, error) {
	switch {
	case *memFlag:
		return storage.Open("")
	case *dbFlag != "":
		return storage.Open(*dbFlag)
	}
	return storage.NewStorage()
}
