package main

import (
	"context"
	"log"
	"os"

	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/app"
	"github.com/luisgurmendez/the-fall-of-the-last-tower/internal/telemetry"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	if err := app.Run(context.Background(), app.Config{Logger: telemetry.WrapLogger(logger)}); err != nil {
		log.Fatalf("%v", err)
	}
}
