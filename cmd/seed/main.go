package main

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/urfave/cli/v2"

	"github.com/abakymuk/DriverOS/internal/config"
	"github.com/abakymuk/DriverOS/internal/db"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/logger"
	"github.com/abakymuk/DriverOS/internal/seed"
	"github.com/abakymuk/DriverOS/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "driveros-seed",
		Usage: "load reference data into a DriverOS database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "seed YAML file",
				Value:   "seed/sample.yaml",
			},
			&cli.IntFlag{
				Name:  "days",
				Usage: "days of slots to generate per terminal",
				Value: 7,
			},
			&cli.TimestampFlag{
				Name:   "from",
				Usage:  "first day to generate slots for (YYYY-MM-DD), defaults to today",
				Layout: time.DateOnly,
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "run migrations before seeding",
				Value: true,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	f, err := seed.Load(c.String("file"))
	if err != nil {
		return err
	}
	if c.Int("days") < 0 {
		return cli.Exit("--days must not be negative", 2)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, "console")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if c.Bool("migrate") {
		if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	from := time.Now().UTC()
	if ts := c.Timestamp("from"); ts != nil {
		from = *ts
	}

	svc := server.NewServices(database, cfg, events.Nop{}, nil)
	rep, err := seed.New(seed.Services{
		Terminals:  svc.Terminals,
		Vessels:    svc.Vessels,
		Containers: svc.Containers,
		Drivers:    svc.Drivers,
		Users:      svc.Users,
		Slots:      svc.Slots,
	}).Run(c.Context, f, from, c.Int("days"))
	if err != nil {
		return err
	}

	for kind, n := range rep.Created {
		fmt.Fprintf(c.App.Writer, "created %-10s %d\n", kind, n)
	}
	for kind, n := range rep.Skipped {
		fmt.Fprintf(c.App.Writer, "skipped %-10s %d\n", kind, n)
	}
	return nil
}
