// Command cssfmt parses one or more stylesheets and re-serializes them,
// optionally upgrading declaration values to typed form first. Its
// command-line shape and logging setup follow fbc's cmd/fbc: urfave/cli/v3
// for flags and subcommand dispatch, zap for structured operational
// logging (distinct from the library's own internal/logger diagnostic
// channel, which reports syntax errors, not program events).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/6over3/CSSKit-sub002/pkg/css"
)

// Config is the optional YAML configuration file, mirroring fbc's pattern
// of a thin typed struct decoded straight off the command's --config flag.
type Config struct {
	Indent       string   `yaml:"indent"`
	ResolveTyped bool     `yaml:"resolve_typed"`
	Files        []string `yaml:"files"`
}

func loadConfig(path string) (Config, error) {
	cfg := Config{Indent: "  "}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.Bool("minify") {
		cfg.Indent = ""
	}
	if cmd.Bool("typed") {
		cfg.ResolveTyped = true
	}

	log, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = cfg.Files
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files given (pass as arguments or via config's \"files\" list)")
	}

	reg := css.NewRegistry()
	for _, path := range paths {
		log.Debug("formatting file", zap.String("path", path))
		if err := formatFile(path, cfg, reg); err != nil {
			log.Error("failed to format file", zap.String("path", path), zap.Error(err))
			return err
		}
	}
	return nil
}

func formatFile(path string, cfg Config, reg *css.Registry) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	parseLog := css.NewLog()
	ss := css.Parse(parseLog, css.Source{Contents: string(contents), PrettyPath: path})
	for _, msg := range parseLog.Done() {
		fmt.Fprintln(os.Stderr, msg.String())
	}

	if cfg.ResolveTyped {
		css.ResolveTypedValues(ss, reg)
	}

	out := css.Print(ss, css.PrintOptions{Indent: cfg.Indent})
	fmt.Println(out)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "cssfmt",
		Usage: "parse and re-serialize CSS stylesheets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "minify", Usage: "print without whitespace"},
			&cli.BoolFlag{Name: "typed", Usage: "resolve declaration values through the typed-value facade before printing"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "verbose logging"},
		},
		Action: run,
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
