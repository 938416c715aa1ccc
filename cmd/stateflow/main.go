package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/stateflowhq/stateflow/internal/config"
	"github.com/stateflowhq/stateflow/pkg/stateflow"
)

func main() {
	stateflow.SetupLogger()

	cmd := &cli.Command{
		Name:  "stateflow",
		Usage: "Data-driven workflow state-machine service",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run migrations and serve the workflow API",
				Action: func(ctx context.Context, command *cli.Command) error {
					return stateflow.Start(nil)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations and exit",
				Action: func(ctx context.Context, command *cli.Command) error {
					databaseType := config.GetSystemSettingString(config.DATABASE_TYPE)
					var dialect, dbURL string
					switch databaseType {
					case config.DATABASE_TYPE_POSTGRES:
						dialect, dbURL = "postgres", config.GetSystemSettingString(config.DATABASE_URL)
					case config.DATABASE_TYPE_MYSQL:
						dialect, dbURL = "mysql", config.GetSystemSettingString(config.DATABASE_URL)
					case config.DATABASE_TYPE_SQLLITE:
						dialect = "sqllite3"
						dbURL = "sqlite3://" + config.GetSystemSettingString(config.DATABASE_SQLLITE_FILE_NAME)
					default:
						return fmt.Errorf("SFLOW_DATABASE_TYPE must be one of POSTGRES, MYSQL, SQLLITE")
					}
					if err := stateflow.RunMigrationsFromEmbed(dialect, dbURL); err != nil {
						return err
					}
					slog.Info("Migrations applied", "dialect", dialect)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("Exited with error", "error", err)
		os.Exit(1)
	}
}
