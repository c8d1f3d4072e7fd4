package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	currency "github.com/malusev998/currency-converter"
)

const EnvPrefix = "CURRENCY_CONVERTER"

var ErrConversionFailed = errors.New("conversion failed")

type (
	Services struct {
		Conversion currency.Conversion
		Refresher  currency.Refresher
		Close      func() error
	}

	// Builder wires the services once flags and the config file have been read.
	Builder func(ctx context.Context, v *viper.Viper, logger hclog.Logger) (*Services, error)

	Config struct {
		Ctx     context.Context
		Viper   *viper.Viper
		Build   Builder
		Version string
		// Args replaces os.Args[1:] when set.
		Args []string

		debug      bool
		configFile string
		logger     hclog.Logger
		services   *Services
	}
)

func (c *Config) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}

	return c.Ctx
}

func (c *Config) viper() *viper.Viper {
	if c.Viper == nil {
		c.Viper = viper.New()
	}

	return c.Viper
}

func (c *Config) newLogger(output io.Writer) hclog.Logger {
	level := hclog.Info
	if c.debug || c.viper().GetBool("debug") {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "currency-converter",
		Level:  level,
		Output: output,
	})
}

// load reads the config file and builds the services on first use, so commands
// rejected during argument checks never open a connection.
func (c *Config) load(cmd *cobra.Command) (*Services, error) {
	if c.services != nil {
		return c.services, nil
	}

	v := c.viper()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if c.configFile != "" {
		absolutePath, err := filepath.Abs(c.configFile)
		if err != nil {
			return nil, err
		}

		v.SetConfigFile(absolutePath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error while reading in the config file: %w", err)
		}
	}

	c.logger = c.newLogger(cmd.ErrOrStderr())

	if c.Build == nil {
		return nil, errors.New("no service builder configured")
	}

	services, err := c.Build(c.context(), v, c.logger)
	if err != nil {
		return nil, err
	}

	c.services = services

	return services, nil
}

func (c *Config) close() {
	if c.services == nil || c.services.Close == nil {
		return
	}

	if err := c.services.Close(); err != nil && c.logger != nil {
		c.logger.Warn("failed to close services", "err", err)
	}

	c.services = nil
}

// positionalNumbers puts "--" in front of the first negative number, so an
// amount like -5 reaches the command as an argument instead of a shorthand flag.
func positionalNumbers(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args
		}

		if len(arg) < 2 || arg[0] != '-' {
			continue
		}

		if _, err := strconv.ParseFloat(arg, 64); err != nil {
			continue
		}

		out := make([]string, 0, len(args)+1)
		out = append(out, args[:i]...)
		out = append(out, "--")

		return append(out, args[i:]...)
	}

	return args
}

func NewRootCommand(config *Config) *cobra.Command {
	rootCmd := convert(config)
	rootCmd.Version = config.Version
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().BoolVar(&config.debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&config.configFile, "config", "", "Path to config file")
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) {
		config.close()
	}

	rootCmd.AddCommand(fetch(config))

	if config.Args != nil {
		rootCmd.SetArgs(positionalNumbers(config.Args))
	}

	return rootCmd
}

func Execute(config *Config) error {
	if config.Args == nil {
		config.Args = os.Args[1:]
	}

	rootCmd := NewRootCommand(config)

	err := rootCmd.ExecuteContext(config.context())
	if err != nil && !errors.Is(err, ErrConversionFailed) {
		rootCmd.PrintErrln("Error:", err.Error())
	}

	// PersistentPostRun is skipped when RunE fails
	config.close()

	return err
}
