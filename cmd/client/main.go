package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/scanpack/internal/buildinfo"
	"github.com/dmitrijs2005/scanpack/internal/client/cli"
	"github.com/dmitrijs2005/scanpack/internal/client/config"
	"github.com/dmitrijs2005/scanpack/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx := context.Background()
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
