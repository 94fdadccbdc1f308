package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintFunc()

// app holds the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "lirc",
		Short:         "Compile Ledger IR into transaction artifacts",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(); err != nil {
				return err
			}
			a.processGlobalFlags()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.lirc.yaml)")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("code", "c", "", "source code to compile")
	flags.Bool("stdin", false, "read source code from stdin")
	flags.String("address", "0x1", "sender address modules are published under")
	flags.Bool("skip-baseline", false, "do not link against the standard library")
	flags.StringArray("dep", nil, "serialized module to link against (repeatable)")
	flags.StringP("output", "o", "text", "output format (text, json, hex)")
	for _, name := range []string{"config", "log-level", "no-color", "code", "stdin", "address", "skip-baseline", "dep", "output"} {
		a.v.BindPFlag(name, flags.Lookup(name))
	}
	root.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))

	root.AddCommand(
		a.compileCmd(),
		a.moduleCmd(),
		a.payloadCmd(),
		a.disCmd(),
		a.stdlibCmd(),
	)
	return root
}

// initConfig reads the optional config file and LIRC_ environment variables.
func (a *app) initConfig() error {
	a.v.SetEnvPrefix("lirc")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".lirc")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		_, missing := err.(viper.ConfigFileNotFoundError)
		if a.v.GetString("config") != "" || !missing {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
