package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"smallsh/internal/config"
	"smallsh/internal/logging"
	"smallsh/internal/shell"
)

type rootOptions struct {
	configPath string
	logFile    string
	debug      bool
	verbose    bool

	exitCode int
}

func (o *rootOptions) addFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configPath, "config", config.DefaultPath(), "config file path")
	flags.StringVar(&o.logFile, "log-file", "", "write diagnostic logs to this file (overrides log_file)")
	flags.BoolVar(&o.debug, "debug", false, "log at debug level")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "also write logs to stderr")
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "smallsh",
		Short:        "A small interactive shell",
		Long:         "smallsh runs commands in the foreground or background with < and > redirection, $$ expansion and a foreground-only mode toggled by SIGTSTP.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run()
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func (o *rootOptions) run() error {
	cfg, err := config.Load(afero.NewOsFs(), o.configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger, err := o.newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	s, err := shell.New(cfg, shell.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("error initializing shell: %w", err)
	}

	code, err := s.Run()
	o.exitCode = code
	return err
}

func (o *rootOptions) newLogger(cfg *config.Config) (*logging.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	logOpts := []logging.Option{logging.Level(level)}
	if o.debug {
		logOpts = append(logOpts, logging.Debug())
	}

	logFile := cfg.LogFile
	if o.logFile != "" {
		logFile = o.logFile
	}
	if logFile != "" {
		logOpts = append(logOpts, logging.File(logFile))
	}
	if o.verbose {
		logOpts = append(logOpts, logging.Console())
	}
	return logging.New(logOpts...)
}

func main() {
	opts := &rootOptions{}
	if err := newRootCmd(opts).Execute(); err != nil {
		if opts.exitCode == 0 {
			opts.exitCode = 1
		}
	}
	os.Exit(opts.exitCode)
}
