// Command gatherly is the offline-first client.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gatherly/internal/client/cli"
	"github.com/dmitrijs2005/gatherly/internal/client/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = cli.NewRootCommand(app).ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil {
		log.Printf("close: %v", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
