package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "construtora",
		Usage: "Back office for projects, employees, vehicles and accommodations",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			alertsCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
