package main

import (
	"fmt"
	"os"

	"construtora/internal/db"
	"construtora/internal/seed"
	"construtora/internal/store"
	"construtora/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Sync the role catalog and optionally promote an administrator",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "admin",
			Usage: "Cognito subject of a user to grant the admin role",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := c.Context

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		roleRepo := store.NewRoleRepository(pool)

		logrus.Info("Seeding roles...")
		if err := seed.SeedRoles(ctx, roleRepo, os.Stdout); err != nil {
			return fmt.Errorf("failed to seed roles: %w", err)
		}
		logrus.Info("Roles seeded successfully")

		if userID := c.String("admin"); userID != "" {
			if err := store.NewUserRepository(pool).SetRole(ctx, userID, types.RoleAdmin); err != nil {
				return fmt.Errorf("failed to promote %s: %w", userID, err)
			}
			logrus.WithField("user_id", userID).Info("User promoted to admin")
		}

		return nil
	},
}
