package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"todo_api/internal/config"
	"todo_api/internal/db"
	"todo_api/internal/logger"
	"todo_api/internal/migrate"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		logger.Fatal("connect", "error", err)
	}
	defer pool.Close()

	runner, err := migrate.NewEmbeddedRunner(pool)
	if err != nil {
		logger.Fatal("load migrations", "error", err)
	}

	if *apply {
		runCtx, cancel := context.WithTimeout(ctx, cfg.MigrationTimeout)
		defer cancel()
		if err := runner.Run(runCtx); err != nil {
			pool.Close()
			logger.Fatal("apply migrations", "error", err)
		}
	}

	st, err := runner.Status(ctx)
	if err != nil {
		logger.Fatal("migration status", "error", err)
	}
	for _, v := range st.Applied {
		fmt.Fprintf(os.Stdout, "applied  %s\n", v)
	}
	for _, v := range st.Pending {
		fmt.Fprintf(os.Stdout, "pending  %s\n", v)
	}
}
