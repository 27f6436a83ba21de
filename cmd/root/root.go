// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"gestorbot/gestor-receipts/internal/config"
	"gestorbot/gestor-receipts/internal/container"
	"gestorbot/gestor-receipts/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

// ConfigFlags override values loaded from config files and the environment.
type ConfigFlags struct {
	File      string
	LogLevel  string
	LogFormat string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once the container is built.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "gestor",
		Short: "Receipt categorization and validation for the GestorBot financial tracker.",
		Long: `gestor reads expense receipts (notas fiscais) and revenue comprovantes,
extracts their data with a vision model and validates the result against the
expense taxonomy before anything is stored.`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if appContainer != nil {
				return nil
			}
			return initContainer()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer != nil {
				if err := appContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
		SilenceUsage: true,
	}

	// SharedFlags holds the common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Config holds the configuration flags
	Config = ConfigFlags{}

	appContainer *container.Container
	appConfig    *config.Config
	initOnce     sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
		Cmd.PersistentFlags().StringVar(&Config.File, "config", "", "Config file (default searches $HOME/.gestor, .gestor and .)")
		Cmd.PersistentFlags().StringVar(&Config.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
		Cmd.PersistentFlags().StringVar(&Config.LogFormat, "log-format", "", "Log format (text, json)")
	})
}

func initContainer() error {
	cfg, err := config.InitializeConfig(Config.File)
	if err != nil {
		return err
	}
	if Config.LogLevel != "" {
		cfg.Log.Level = Config.LogLevel
	}
	if Config.LogFormat != "" {
		cfg.Log.Format = Config.LogFormat
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	SetContainer(c)
	return nil
}

// GetContainer returns the container built before the command ran.
func GetContainer() *container.Container {
	return appContainer
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return appConfig
}

// SetContainer installs c. Tests use it to bypass config loading.
func SetContainer(c *container.Container) {
	appContainer = c
	if c != nil {
		appConfig = c.GetConfig()
		Log = c.GetLogger()
	}
}

// Fatal logs err and exits with status 1.
func Fatal(err error) {
	Log.WithError(err).Error("Command failed")
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
