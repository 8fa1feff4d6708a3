package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	counselcmd "github.com/sagaforge/counsel/internal/cmd/counsel"
)

func main() {
	cfg, err := counselcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[COUNSEL] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := counselcmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("failed to evaluate: %v", err)
	}
}
