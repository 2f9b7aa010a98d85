// Package main implements the demo server for the servo library: a small
// signup/login API whose endpoints run service objects end to end.
package main

import (
	"context"
	"log"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := setupLogger(cfg.Server)
	app := newApplication(cfg, logger)

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
