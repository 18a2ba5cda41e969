package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/ttacon/chalk"
	"github.com/urfave/cli"

	"ormd/connections"
	"ormd/diagram"
	"ormd/logging"
	"ormd/render"
	"ormd/server"
	"ormd/validation"
)

func readDesign(c *cli.Context) (*diagram.Design, error) {
	path := c.Args().First()
	if path == "" {
		return nil, errors.New("missing design file")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open design")
	}
	defer f.Close()

	d, err := diagram.Decode(f, diagram.NewRegistry())
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	diagram.EnsureIDs(d)
	return d, nil
}

func writeDesign(c *cli.Context, d *diagram.Design) error {
	out := c.String("out")
	if out == "" {
		return diagram.Encode(c.App.Writer, d)
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := diagram.Encode(f, d); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close output")
}

func printSummary(w io.Writer, s connections.Summary) {
	color := chalk.Green
	if !s.OK() {
		color = chalk.Yellow
	}
	fmt.Fprintf(w, "%s%s%s\n", color, s.String(), chalk.Reset)
	for _, id := range s.Failed {
		fmt.Fprintf(w, "%sfailed:%s %s\n", chalk.Red, chalk.Reset, id)
	}
	for _, id := range s.Unresolved {
		fmt.Fprintf(w, "%sunresolved:%s %s\n", chalk.Red, chalk.Reset, id)
	}
}

func routeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("gap") {
		cfg.Gap = c.Float64("gap")
	}
	if c.IsSet("strategy") {
		cfg.Strategy = c.String("strategy")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	d, err := readDesign(c)
	if err != nil {
		return err
	}
	router := cfg.NewDesignRouter()
	opts := cfg.RouteOptions()
	dump := c.Bool("dump")
	if dump {
		// A cache hit skips the search, leaving the router holding another
		// line's result.
		router.SetCacheSize(0)
	}

	if line := c.String("line"); line != "" {
		if !router.RouteLine(d, line, opts) {
			return cli.NewExitError(fmt.Sprintf("%sno route for line %q%s", chalk.Red, line, chalk.Reset), 2)
		}
		fmt.Fprintf(c.App.ErrWriter, "%srouted %s%s\n", chalk.Green, line, chalk.Reset)
	} else {
		printSummary(c.App.ErrWriter, router.RouteAllLines(d, opts))
	}

	if dump {
		spew.Fdump(c.App.ErrWriter, router.Router(cfg.Gap).Result())
	} else {
		logging.Logger().Debug("route cache", "stats", router.Cache().String())
	}
	return writeDesign(c, d)
}

func layoutAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("margin") {
		cfg.LayoutMargin = c.Float64("margin")
	}
	if c.IsSet("strategy") {
		cfg.Strategy = c.String("strategy")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	d, err := readDesign(c)
	if err != nil {
		return err
	}

	printSummary(c.App.ErrWriter, cfg.NewDesignRouter().AutoLayout(d, cfg.LayoutMargin, cfg.RouteOptions()))
	return writeDesign(c, d)
}

func validateAction(c *cli.Context) error {
	d, err := readDesign(c)
	if err != nil {
		return err
	}
	issues := validation.NewValidator().Validate(d)
	if len(issues) == 0 {
		fmt.Fprintf(c.App.Writer, "%sno issues%s\n", chalk.Green, chalk.Reset)
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintf(c.App.Writer, "%s%s%s\n", chalk.Yellow, issue, chalk.Reset)
	}
	return cli.NewExitError(fmt.Sprintf("%d issues", len(issues)), 3)
}

func previewAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	d, err := readDesign(c)
	if err != nil {
		return err
	}
	if c.Bool("route") {
		cfg.NewDesignRouter().RouteAllLines(d, cfg.RouteOptions())
	}

	preview := render.NewPreview()
	preview.Scale = cfg.PreviewScale
	if c.IsSet("scale") {
		preview.Scale = c.Float64("scale")
	}

	if c.Bool("text") {
		fmt.Fprintln(c.App.Writer, preview.Render(d))
		return nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "open terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init terminal")
	}
	defer screen.Fini()
	preview.Run(screen, d)
	return nil
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	fmt.Fprintf(c.App.ErrWriter, "%slistening on %s%s\n", chalk.Blue, cfg.Addr, chalk.Reset)
	return server.New(cfg, os.Stdout).ListenAndServe()
}
