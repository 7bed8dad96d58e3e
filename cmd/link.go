package cmd

import (
	"github.com/emrgen/linker/internal/model"
	"github.com/emrgen/linker/internal/service"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func linkCmd(opts *rootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "link",
		Short: "manage links between entities and properties",
	}

	command.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	command.AddCommand(listLinksCmd(opts))
	command.AddCommand(addLinkCmd(opts))

	return command
}

func listLinksCmd(opts *rootOptions) *cobra.Command {
	var query string
	var named bool

	command := &cobra.Command{
		Use:     "list",
		Short:   "list links",
		Long:    `list links, with --named the entity and property names are shown instead of their ids`,
		Example: "linker link list --named -q <query>",
		Run: func(cmd *cobra.Command, args []string) {
			client, listOpts, err := opts.connect()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			if named {
				links := service.NewNamedLinkList(client, listOpts)
				if err := links.Load(cmd.Context()); err != nil {
					return
				}
				links.SetQuery(query)

				if err := renderNamedLinks(cmd, opts, links.Visible()); err != nil {
					logrus.Error(err)
				}
				return
			}

			links := service.NewLinkList(client, listOpts)
			if err := links.Load(cmd.Context()); err != nil {
				return
			}
			links.SetQuery(query)

			visible := links.Visible()
			rows := make([][]string, 0, len(visible))
			for _, l := range visible {
				rows = append(rows, []string{l.ID, l.EntityID, l.PropertyID})
			}
			if err := opts.render(cmd.OutOrStdout(), []string{"ID", "Entity ID", "Property ID"}, rows, visible); err != nil {
				logrus.Error(err)
			}
		},
	}

	command.Flags().StringVarP(&query, "query", "q", "", "show links matching the query")
	command.Flags().BoolVar(&named, "named", false, "list the named_link view")

	return command
}

func addLinkCmd(opts *rootOptions) *cobra.Command {
	var entityID string
	var propertyID string

	var required = []string{"entity-id", "property-id"}

	command := &cobra.Command{
		Use:     "add",
		Short:   "link an entity to a property",
		Example: "linker link add -e <entity-id> -p <property-id>",
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

			ws := service.NewWorkspace(client, listOpts)
			if err := ws.Load(cmd.Context()); err != nil {
				return
			}

			if err := ws.Entities.Select(entityID); err != nil {
				color.Red("unknown entity: %s", entityID)
				return
			}
			if err := ws.Properties.Select(propertyID); err != nil {
				color.Red("unknown property: %s", propertyID)
				return
			}

			if !ws.CanAddLink() {
				color.Red("%s and %s are already linked", ws.SelectedEntity().Name, ws.SelectedProperty().Name)
				return
			}

			link, err := ws.AddLink(cmd.Context())
			if err != nil {
				logrus.Error(err)
				return
			}

			if err := renderNamedLinks(cmd, opts, []model.NamedLink{link}); err != nil {
				logrus.Error(err)
			}
		},
	}

	command.Flags().StringVarP(&entityID, "entity-id", "e", "", "entity id (required)")
	command.Flags().StringVarP(&propertyID, "property-id", "p", "", "property id (required)")
	command.Flags().SortFlags = false

	return command
}

func renderNamedLinks(cmd *cobra.Command, opts *rootOptions, links []model.NamedLink) error {
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, []string{l.ID, l.EntityName, l.PropertyName})
	}
	return opts.render(cmd.OutOrStdout(), []string{"ID", "Entity", "Property"}, rows, links)
}
