package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"construtora/internal/db"
	"construtora/internal/storage"
	"construtora/internal/utils"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var alertsCommand = &cli.Command{
	Name:  "alerts",
	Usage: "List documents expiring within the warning window",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "days",
			Aliases: []string{"d"},
			Usage:   "Window in days",
			Value:   utils.AlertWarningDays,
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Dump every row",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := c.Context

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := newLogger(cfg)

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		blobs, err := storage.New(cfg, awsConfig)
		if err != nil {
			return fmt.Errorf("failed to configure blob storage: %w", err)
		}

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		docs, err := newRegistry(logger, pool, blobs).Expiring(ctx, c.Int("days"))
		if err != nil {
			return err
		}

		if c.Bool("verbose") {
			_, err = pp.Println(docs)
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tPARENT\tTYPE\tEXPIRES\tSTATUS\tVALUE")
		for _, doc := range docs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				doc.Kind, doc.ParentID, doc.Type, doc.ExpiresAt.Format("02/01/2006"), doc.Status.Label, doc.ValueDisplay)
		}
		fmt.Fprintf(w, "\n%d document(s)\n", len(docs))

		return w.Flush()
	},
}
