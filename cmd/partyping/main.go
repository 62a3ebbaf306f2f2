// Package main starts the headless party ping client and handles
// termination.
//
// The process drives the tick loop around the relay link and the in-memory
// ping registry; rendering surfaces consume the registry read-only.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	partyping "github.com/mikov/partyping/internal/cmd/partyping"
)

func main() {
	cfg, err := partyping.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[PARTYPING] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := partyping.Run(ctx, cfg); err != nil {
		log.Fatalf("client failed: %v", err)
	}
}
