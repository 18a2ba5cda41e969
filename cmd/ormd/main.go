package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"ormd/config"
	"ormd/logging"
)

func main() {
	app := makeApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ormd"
	app.Usage = "route references between the tables of an ORM design"
	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Usage: "JSON config file"},
		cli.BoolFlag{Name: "debug", Usage: "Enable debug logging on stderr"},
	}
	app.Before = func(c *cli.Context) error {
		if c.GlobalBool("debug") {
			logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
		return nil
	}

	designArg := "design.json"
	app.Commands = []cli.Command{
		{
			Name:      "route",
			Aliases:   []string{"r"},
			Usage:     "Route every reference, or one with --line",
			ArgsUsage: designArg,
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "gap", Usage: "Clearance between lines and tables"},
				cli.StringFlag{Name: "strategy", Usage: "auto, orthogonal, l-route or c-route"},
				cli.StringFlag{Name: "line", Usage: "Route only this reference"},
				cli.StringFlag{Name: "out, o", Usage: "Output file (default: stdout)"},
				cli.BoolFlag{Name: "dump", Usage: "Dump the orthogonal router's result for the last line it searched to stderr; disables the route cache"},
			},
			Action: routeAction,
		},
		{
			Name:      "layout",
			Usage:     "Arrange tables in rows and route every reference",
			ArgsUsage: designArg,
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "margin", Usage: "Space between tables"},
				cli.StringFlag{Name: "strategy", Usage: "auto, orthogonal, l-route or c-route"},
				cli.StringFlag{Name: "out, o", Usage: "Output file (default: stdout)"},
			},
			Action: layoutAction,
		},
		{
			Name:      "validate",
			Aliases:   []string{"v"},
			Usage:     "Check routed lines and table overlaps",
			ArgsUsage: designArg,
			Action:    validateAction,
		},
		{
			Name:      "preview",
			Aliases:   []string{"p"},
			Usage:     "Draw the design in the terminal",
			ArgsUsage: designArg,
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "scale", Usage: "Terminal columns per design unit"},
				cli.BoolFlag{Name: "text", Usage: "Print the drawing instead of opening a screen"},
				cli.BoolFlag{Name: "route", Usage: "Route every reference before drawing"},
			},
			Action: previewAction,
		},
		{
			Name:  "serve",
			Usage: "Host designs over HTTP and websocket",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "addr", Usage: "Listen address"},
			},
			Action: serveAction,
		},
	}
	return app
}

// loadConfig reads --config over the defaults.
func loadConfig(c *cli.Context) (config.Config, error) {
	path := c.GlobalString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
