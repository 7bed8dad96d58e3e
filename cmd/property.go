package cmd

import (
	"errors"

	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/service"
	"github.com/emrgen/linker/internal/view"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func propertyCmd(opts *rootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "property",
		Short: "manage properties",
	}

	command.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	command.AddCommand(listPropertiesCmd(opts))
	command.AddCommand(addPropertyCmd(opts))

	return command
}

func listPropertiesCmd(opts *rootOptions) *cobra.Command {
	var query string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list properties",
		Example: "linker property list -q <query>",
		Run: func(cmd *cobra.Command, args []string) {
			client, listOpts, err := opts.connect()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			properties := service.NewPropertyList(client, listOpts)
			if err := properties.Load(cmd.Context()); err != nil {
				return
			}
			properties.SetQuery(query)

			if err := renderProperties(cmd, opts, properties.Visible()); err != nil {
				logrus.Error(err)
			}
		},
	}

	command.Flags().StringVarP(&query, "query", "q", "", "show properties whose name contains the query")

	return command
}

func addPropertyCmd(opts *rootOptions) *cobra.Command {
	var name string

	var required = []string{"name"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "add a property",
		Example: "linker property add -n <name>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, listOpts, err := opts.connect()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			properties := service.NewPropertyList(client, listOpts)
			if err := properties.Load(cmd.Context()); err != nil {
				return
			}

			property, err := properties.Add(cmd.Context(), name)
			if errors.Is(err, view.ErrCannotCreate) {
				color.Red("property %s already exists", name)
				return
			}
			if err != nil {
				logrus.Error(err)
				return
			}

			if err := renderProperties(cmd, opts, []model.Property{property}); err != nil {
				logrus.Error(err)
			}
		},
	}

	command.Flags().StringVarP(&name, "name", "n", "", "name of the property (required)")

	return command
}

func renderProperties(cmd *cobra.Command, opts *rootOptions, properties []model.Property) error {
	rows := make([][]string, 0, len(properties))
	for _, p := range properties {
		rows = append(rows, []string{p.ID, p.Name})
	}
	return opts.render(cmd.OutOrStdout(), []string{"ID", "Name"}, rows, properties)
}
