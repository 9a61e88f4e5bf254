// Command ndefctl inspects the builtin formatter registry.
//
//	ndefctl types                       list registered names and their native types
//	ndefctl parse --type int32 -- -12   parse scalar text and print its normalised form
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"ndef-formatter/formatter"
	"ndef-formatter/ndef"
	"ndef-formatter/primitive"
	"ndef-formatter/registry"
	"ndef-formatter/registry/config"
)

func main() {
	app := cli.NewApp()
	app.Name = "ndefctl"
	app.Usage = "inspect ndef formatters"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "registry configuration file (.yaml, .yml or .toml)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level, overrides the configuration",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "types",
			Usage:  "list registered type names",
			Action: runTypes,
		},
		{
			Name:      "parse",
			Usage:     "parse scalar text with the formatter of a type and print it back",
			ArgsUsage: "TEXT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "type",
					Aliases:  []string{"t"},
					Usage:    "serializable type name",
					Required: true,
				},
			},
			Action: runParse,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ndefctl:", err)
		os.Exit(1)
	}
}

func newLogger(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "ndefctl").Logger()
}

// openRegistry builds the sealed default registry, configured from --config if given.
func openRegistry(c *cli.Context) (*registry.Registry, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	level := zerolog.WarnLevel
	if cfg.LogLevel != "" {
		level = cfg.Level()
	}
	if s := c.String("log-level"); s != "" {
		parsed, err := zerolog.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		level = parsed
	}

	logger := newLogger(level)

	r, err := registry.NewDefault(registry.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if c.String("config") != "" {
		diags := cfg.Validate(r)
		for _, w := range diags.Warnings {
			logger.Warn().Str("key", w.Key).Msg(w.Message)
		}

		if err := cfg.Apply(r); err != nil {
			return nil, err
		}
	}

	if err := r.Seal(); err != nil {
		return nil, err
	}

	return r, nil
}

func runTypes(c *cli.Context) error {
	r, err := openRegistry(c)
	if err != nil {
		return err
	}

	return printTypes(c.App.Writer, r)
}

func printTypes(w io.Writer, r *registry.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tFAMILY\tKIND\tSENTINEL")

	for _, name := range r.Names() {
		ti, err := r.LookupTypeInfoByName(name)
		if err != nil {
			return err
		}

		// the sentinel policy is only known for primitive kinds
		kind, sentinel := "-", "-"
		if k := primitive.FromWireName(ti.Name); k != 0 {
			kind = k.String()
			sentinel = "no"
			if k.HasSentinel() {
				sentinel = "yes"
			}
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, ti.Type, formatter.Classify(ti.Type), kind, sentinel)
	}

	return tw.Flush()
}

func runParse(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("parse expects exactly one TEXT argument, got %d", c.NArg())
	}

	r, err := openRegistry(c)
	if err != nil {
		return err
	}

	out, err := normalise(r, c.String("type"), c.Args().First())
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, out)
	return nil
}

// normalise parses text with the formatter registered under name and formats the
// result again. A null result prints as "null".
func normalise(r *registry.Registry, name, text string) (string, error) {
	ti, err := r.LookupTypeInfoByName(name)
	if err != nil {
		return "", err
	}

	if formatter.Classify(ti.Type) != formatter.FamilyScalar {
		return "", fmt.Errorf("%w: %s is not a scalar type", ndef.ErrUnsupportedOperation, name)
	}

	x, err := ti.Formatter.FromNdefValue(ti.Type, ndef.Text(text))
	if err != nil {
		return "", err
	}

	v, err := ti.Formatter.ToNdefValue(ti.Type, x)
	if err != nil {
		return "", err
	}

	if v.IsNull() {
		return "null", nil
	}

	return v.ScalarText(), nil
}
