package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"

	"github.com/bookhive/bookstore-api/internal/client/apiclient"
	"github.com/bookhive/bookstore-api/internal/client/cli"
	"github.com/bookhive/bookstore-api/internal/client/session"
	"github.com/bookhive/bookstore-api/internal/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg, err := config.LoadClient(ctx, envconfig.OsLookuper())
	if err != nil {
		return err
	}

	path := cfg.StateFile
	if path == "" {
		if path, err = session.DefaultPath(); err != nil {
			return fmt.Errorf("locate session file: %w", err)
		}
	}

	app := &cli.App{
		Session: session.NewStore(session.NewFileBackend(path)),
		API:     apiclient.New(cfg.APIURL, nil),
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
