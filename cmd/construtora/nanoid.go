package main

import (
	"fmt"

	"construtora/internal/utils"

	"github.com/urfave/cli/v2"
)

// nanoidCommand prints ids in the same alphabet the repositories use, for
// fixtures and manual inserts.
var nanoidCommand = &cli.Command{
	Name:  "nanoid",
	Usage: "Generate row ids",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to generate",
			Value:   1,
		},
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"s"},
			Usage:   "ID length",
			Value:   utils.NanoidSize,
		},
	},
	Action: func(c *cli.Context) error {
		if c.Int("size") < 1 {
			return fmt.Errorf("size must be positive")
		}

		for range c.Int("count") {
			fmt.Println(utils.NanoIDSize(c.Int("size")))
		}
		return nil
	},
}
