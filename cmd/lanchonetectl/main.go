// lanchonetectl tareas de operación: migraciones, carga del cardápio inicial y emisión de tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/lanchonete-api/internal/application/usecase"
	"github.com/jhoicas/lanchonete-api/internal/infrastructure/postgres"
	"github.com/jhoicas/lanchonete-api/pkg/config"
	"github.com/jhoicas/lanchonete-api/pkg/jwt"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "lanchonetectl",
		Usage: "administración de lanchonete-api",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "DSN de PostgreSQL (por defecto el de la configuración)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			tokenCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func databaseURL(c *cli.Context, cfg *config.Config) string {
	if dsn := c.String("database-url"); dsn != "" {
		return dsn
	}
	return cfg.DB.ConnectionString()
}

func migrateCommand() *cli.Command {
	run := func(name string, fn func(string) error) *cli.Command {
		return &cli.Command{
			Name:  name,
			Usage: "aplica las migraciones embebidas (" + name + ")",
			Action: func(c *cli.Context) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
				if err := fn(databaseURL(c, cfg)); err != nil {
					return fmt.Errorf("migrate %s: %w", name, err)
				}
				log.Info().Str("direction", name).Msg("migraciones aplicadas")
				return nil
			},
		}
	}
	return &cli.Command{
		Name:        "migrate",
		Usage:       "migraciones del esquema",
		Subcommands: []*cli.Command{run("up", postgres.MigrateUp), run("down", postgres.MigrateDown)},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "carga el cardápio inicial (ítems ya existentes se omiten)",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

			ctx, cancel := context.WithTimeout(c.Context, time.Minute)
			defer cancel()

			pool, err := postgres.OpenDSN(ctx, databaseURL(c, cfg))
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewMenuUseCase(postgres.NewMenuItemRepository(pool, cfg.Realtime.Channel))
			n, err := uc.Seed(ctx, usecase.DefaultMenu())
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info().Int("created", n).Msg("cardápio inicial cargado")
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "emite un JWT firmado con JWT_SECRET",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "user id (subject)", Required: true},
			&cli.StringFlag{Name: "role", Usage: "admin | staff", Value: jwt.RoleStaff},
			&cli.DurationFlag{Name: "ttl", Usage: "vigencia; por defecto JWT_EXPIRATION"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			role := c.String("role")
			if !jwt.ValidRole(role) {
				return fmt.Errorf("rol inválido %q", role)
			}
			ttl := c.Duration("ttl")
			if ttl <= 0 {
				ttl = time.Duration(cfg.JWT.Expiration) * time.Minute
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, c.String("user"), role, cfg.JWT.Issuer, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, tok)
			return nil
		},
	}
}
