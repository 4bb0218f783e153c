package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"param-transform/internal/config"
	"param-transform/internal/input"
	"param-transform/internal/logging"
	"param-transform/internal/model"
)

type options struct {
	logLevel string
	noColor  bool
	dump     bool

	inputPath string
	row       int

	getenv func(string) string
	logger *slog.Logger
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	o := &options{getenv: getenv}

	root := &cobra.Command{
		Use:           "transformctl",
		Short:         "Validate and evaluate parameter transformations of a model file",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setupLogger(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error or off")
	flags.BoolVar(&o.noColor, "no-color", false, "disable coloured log output")
	flags.BoolVar(&o.dump, "dump", false, "dump internal state after the command")
	flags.StringVarP(&o.inputPath, "input", "i", "", "free parameter values file")
	flags.IntVar(&o.row, "row", 1, "row of the input file to apply")

	root.AddCommand(newCheckCmd(o), newReportCmd(o), newObjectiveCmd(o))

	return root
}

func (o *options) setupLogger(cmd *cobra.Command) error {
	cfg := logging.DefaultConfig(logging.ProfileRuntime)
	logging.ApplyEnv(&cfg, o.getenv)

	if cmd.Flags().Changed("log-level") {
		lvl, ok := logging.ParseLevel(o.logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", o.logLevel)
		}

		cfg.Level = lvl
	}

	if o.noColor {
		cfg.NoColor = true
	}

	o.logger = logging.New(cmd.ErrOrStderr(), cfg)

	return nil
}

// start loads the model file and the optional input file and starts the
// model. The model is returned alongside a Start error so its diagnostics
// can be dumped.
func (o *options) start(path string) (*model.Model, error) {
	f, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	def, err := f.Definition()
	if err != nil {
		return nil, err
	}

	m, err := model.New(def, o.logger)
	if err != nil {
		return nil, err
	}

	var in model.InputValues

	if o.inputPath != "" {
		v, err := input.LoadFile(o.inputPath, o.row)
		if err != nil {
			return nil, err
		}

		v.Logger = o.logger
		in = v
	}

	return m, m.Start(in)
}
