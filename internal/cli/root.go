// Package cli implements the appconf command line interface.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/glxtools/appconf/pkg/appconfig"
	"github.com/glxtools/appconf/pkg/config"
	"github.com/glxtools/appconf/pkg/log"
)

const (
	cmdName = "appconf"
	cmdDesc = `Inspect and edit application profile configuration files.`

	cmdExamples = `  # Show the rules and profiles on the search path:
  appconf list rules
  appconf list profiles

  # Select rules with a CEL expression:
  appconf list rules --filter 'rule.feature == "procname"'

  # Add a rule, previewing the file edits without writing them:
  appconf rule add --matches glxgears --profile Fast --dry-run

  # Raise a rule's priority by two positions:
  appconf rule mv 3 -2

  # Create or update a profile:
  appconf profile set Fast --setting GLSyncToVblank=false --setting GLFSAAMode=0x5

  # Rename a profile and repoint the rules that reference it:
  appconf profile rename Fast Faster

  # Summarize the configuration and its backing files:
  appconf status`
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the appconf configuration file")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(err)
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setup(args),
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewListCmd(args),
		NewRuleCmd(args),
		NewProfileCmd(args),
		NewEnableCmd(args),
		NewDisableCmd(args),
		NewStatusCmd(args),
		NewValidateCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

// setup loads the tool configuration and installs the logger before any
// subcommand runs. Flags override the configuration file.
func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadToolConfig(ra)
		if err != nil {
			return err
		}

		logLevel := ra.LogLevel
		if logLevel == "" {
			logLevel = cfg.Log.Level
		}

		logFormat := ra.LogFormat
		if logFormat == "" {
			logFormat = cfg.Log.Format
		}

		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), logLevel, logFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}

func loadToolConfig(ra *RootArgs) (*config.Config, error) {
	path := ra.ConfigPath
	if path == "" {
		path = config.GetPath()

		err := config.WriteDefault(path)
		if err != nil {
			slog.Debug("cannot write default configuration",
				slog.String("path", path),
				slog.Any("error", err),
			)
		}
	}

	loader, err := config.NewLoaderFromFile(path)
	if err != nil {
		if ra.ConfigPath != "" {
			return nil, fmt.Errorf("load config: %w", err)
		}

		// Fall back to defaults when the default path is unreadable.
		return config.NewConfig(), nil
	}

	err = loader.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// newSession resolves the search path and global file from the tool
// configuration and loads an engine session.
func newSession(ra *RootArgs) (*appconfig.Session, *config.Config, error) {
	cfg, err := loadToolConfig(ra)
	if err != nil {
		return nil, nil, err
	}

	home := appconfig.UserHome()

	searchPath := cfg.SearchPath
	if len(searchPath) == 0 {
		searchPath = appconfig.DefaultSearchPath(home)
	}

	globalFile := cfg.GlobalFile
	if globalFile == "" {
		globalFile = appconfig.DefaultGlobalFile(home)
	}

	return appconfig.NewSession(globalFile, searchPath), cfg, nil
}
