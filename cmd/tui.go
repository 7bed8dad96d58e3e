package cmd

import (
	"io"

	"github.com/emrgen/linker"
	"github.com/emrgen/linker/internal/api"
	"github.com/emrgen/linker/internal/service"
	"github.com/emrgen/linker/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func tuiCmd(opts *rootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "tui",
		Short: "browse and link entities and properties interactively",
		Run: func(cmd *cobra.Command, args []string) {
			client, listOpts, err := opts.connectQuiet()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			if err := tui.Run(cmd.Context(), service.NewWorkspace(client, listOpts)); err != nil {
				logrus.Error(err)
			}
		},
	}

	return command
}

// connectQuiet connects with the client and the lists logging nowhere.
// Log lines would tear the screen apart, errors show in the status line.
func (o *rootOptions) connectQuiet() (linker.Client, service.Options, error) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, listOpts, err := o.connect(api.WithLogger(logger))
	if err != nil {
		return nil, service.Options{}, err
	}
	listOpts.Logger = logger

	return client, listOpts, nil
}
