package cmd

import (
	"os"

	"github.com/emrgen/linker"
	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/config"
	"github.com/emrgen/linker/internal/service"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	env        string
	output     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   "linker",
		Short: "link entities to properties",
		Example: `linker entity list -q car
linker entity add -n car
linker property add -n color
linker link add -e <entity-id> -p <property-id>
linker link list --named
linker config set --endpoint http://localhost:4001
linker tui`,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: ./linker.yml or the user config dir)")
	flags.StringVar(&opts.env, "env", "", "environment block of the config file to use")
	flags.StringVarP(&opts.output, "output", "o", outputTable, "output format: table, json or yaml")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, overrides the config file")

	rootCmd.AddCommand(entityCmd(opts))
	rootCmd.AddCommand(propertyCmd(opts))
	rootCmd.AddCommand(linkCmd(opts))
	rootCmd.AddCommand(configCmd(opts))
	rootCmd.AddCommand(tuiCmd(opts))

	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(config.Options{File: o.configFile, Env: o.env})
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	cfg.ApplyLogLevel()

	return cfg, nil
}

// connect loads the config and creates a client for its endpoint.
func (o *rootOptions) connect(clientOpts ...api.Option) (linker.Client, service.Options, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, service.Options{}, err
	}

	client, err := linker.NewClient(cfg, clientOpts...)
	if err != nil {
		return nil, service.Options{}, err
	}

	return client, service.OptionsFromConfig(cfg), nil
}

// configPath is the document the config commands read and write.
func (o *rootOptions) configPath() string {
	if o.configFile != "" {
		return o.configFile
	}
	return config.DefaultFile()
}
