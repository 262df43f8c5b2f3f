package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bloghub/cmd/app"
	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/httpserver"
	"bloghub/internal/logutil"
	"bloghub/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const adminPasswordEnv = "BLOGHUB_ADMIN_PASSWORD"

func loadConfig() (*config.Config, error) {
	cfg := config.LoadConfig()
	logutil.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the blog site",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Apply the database schema before serving",
				Value: true,
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := app.New(ctx.Context, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if ctx.Bool("migrate") {
				if err := a.DB.RunMigrations(ctx.Context); err != nil {
					return err
				}
			}

			bind := fmt.Sprintf(":%d", cfg.ServerPort)
			log.Info().Str("addr", bind).Str("database", cfg.DB.DbNAME).Msg("bloghub starting")
			return httpserver.Serve(ctx.Context, bind, a.Handler)
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the database tables and indexes",
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.ConnectDB(cfg)
			if err != nil {
				return err
			}
			defer db.CloseDB()

			return db.RunMigrations(ctx.Context)
		},
	}
}

func createAdminCmd() *cli.Command {
	var email, firstName, surname string
	return &cli.Command{
		Name:  "create-admin",
		Usage: fmt.Sprintf("Create an administrator account (password is read from %s)", adminPasswordEnv),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true, Destination: &email},
			&cli.StringFlag{Name: "first-name", Required: true, Destination: &firstName},
			&cli.StringFlag{Name: "surname", Required: true, Destination: &surname},
		},
		Action: func(ctx *cli.Context) error {
			password := os.Getenv(adminPasswordEnv)
			if password == "" {
				return errors.New(adminPasswordEnv + " is not set")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := app.New(ctx.Context, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.DB.RunMigrations(ctx.Context); err != nil {
				return err
			}

			user, err := a.Services.User.CreateUser(ctx.Context, service.RegisterRequest{
				FirstName:       firstName,
				Surname:         surname,
				Email:           email,
				Password:        password,
				PasswordConfirm: password,
				IsAdmin:         true,
			})
			if err != nil {
				return err
			}

			log.Info().Str("user_id", user.UserID).Str("email", user.Email).Msg("Administrator created")
			return nil
		},
	}
}

func main() {
	cliApp := &cli.App{
		Name:  "bloghub",
		Usage: "A small multi-user blogging site",
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			createAdminCmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("bloghub failed")
	}
}
