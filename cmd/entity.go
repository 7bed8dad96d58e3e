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

func entityCmd(opts *rootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "entity",
		Short: "manage entities",
	}

	command.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	command.AddCommand(listEntitiesCmd(opts))
	command.AddCommand(addEntityCmd(opts))

	return command
}

func listEntitiesCmd(opts *rootOptions) *cobra.Command {
	var query string

	command := &cobra.Command{
		Use:     "list",
		Short:   "list entities",
		Example: "linker entity list -q <query>",
		Run: func(cmd *cobra.Command, args []string) {
			client, listOpts, err := opts.connect()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			entities := service.NewEntityList(client, listOpts)
			if err := entities.Load(cmd.Context()); err != nil {
				return
			}
			entities.SetQuery(query)

			if err := renderEntities(cmd, opts, entities.Visible()); err != nil {
				logrus.Error(err)
			}
		},
	}

	command.Flags().StringVarP(&query, "query", "q", "", "show entities whose name contains the query")

	return command
}

func addEntityCmd(opts *rootOptions) *cobra.Command {
	var name string

	var required = []string{"name"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "add an entity",
		Example: "linker entity add -n <name>",
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

			entities := service.NewEntityList(client, listOpts)
			if err := entities.Load(cmd.Context()); err != nil {
				return
			}

			entity, err := entities.Add(cmd.Context(), name)
			if errors.Is(err, view.ErrCannotCreate) {
				color.Red("entity %s already exists", name)
				return
			}
			if err != nil {
				logrus.Error(err)
				return
			}

			if err := renderEntities(cmd, opts, []model.Entity{entity}); err != nil {
				logrus.Error(err)
			}
		},
	}

	command.Flags().StringVarP(&name, "name", "n", "", "name of the entity (required)")

	return command
}

func renderEntities(cmd *cobra.Command, opts *rootOptions, entities []model.Entity) error {
	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, []string{e.ID, e.Name})
	}
	return opts.render(cmd.OutOrStdout(), []string{"ID", "Name"}, rows, entities)
}
