package cmd

import (
	"github.com/emrgen/linker/internal/config"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func configCmd(opts *rootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "config commands",
	}

	command.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	command.AddCommand(setConfigCmd(opts))
	command.AddCommand(currentConfigCmd(opts))
	command.AddCommand(resetConfigCmd(opts))

	return command
}

// saves the endpoint to the config file, ~/.config/linker/linker.yml unless --config is set
func setConfigCmd(opts *rootOptions) *cobra.Command {
	var endpoint string

	var required = []string{"endpoint"}

	command := &cobra.Command{
		Use:     "set",
		Short:   "set the backend endpoint",
		Example: "linker config set --endpoint http://localhost:4001 --env dev",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			path := opts.configPath()
			if err := config.SaveEndpoint(path, opts.env, endpoint); err != nil {
				logrus.Errorf("error writing config file: %v", err)
				return
			}

			color.Green("config saved to %s", path)
		},
	}

	command.Flags().StringVar(&endpoint, "endpoint", "", "backend url (required)")

	return command
}

func currentConfigCmd(opts *rootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "show the current environment and endpoint",
		Run: func(cmd *cobra.Command, args []string) {
			path := opts.configPath()
			env, endpoint, err := config.Current(path)
			if err != nil {
				logrus.Errorf("error reading config file: %v", err)
				return
			}

			out := cmd.OutOrStdout()
			printField(out, "File", path)
			printField(out, "Env", env)
			printField(out, "Endpoint", endpoint)
		},
	}

	return command
}

func resetConfigCmd(opts *rootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "remove the config file",
		Run: func(cmd *cobra.Command, args []string) {
			path := opts.configPath()
			if err := config.Reset(path); err != nil {
				logrus.Errorf("error removing config file: %v", err)
				return
			}

			color.Green("config removed")
		},
	}

	return command
}
