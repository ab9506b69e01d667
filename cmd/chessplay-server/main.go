package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hailam/chessrules/internal/server"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	addrFlag = flag.String("addr", ":8080", "address to listen on")
	dbFlag   = flag.String("db", "", "database directory (empty: in-memory)")
	logFlag  = flag.String("log", "", "write log output to this file")
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
		log.SetPrefix("[chessplay-server] ")
	}

	store, err := storage.Open(*dbFlag)
	if err != nil {
		log.Fatalf("could not open storage: %v", err)
	}
	defer store.Close()

	srv := server.New(store)
	if n, err := srv.Restore(); err != nil {
		log.Printf("Warning: could not restore saved games: %v", err)
	} else if n > 0 {
		log.Printf("Restored %d saved games", n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(shutdownCtx); err != nil {
			log.Printf("Warning: shutdown: %v", err)
		}
	}()

	if err := srv.Listen(*addrFlag); err != nil {
		log.Fatal(err)
	}
}
