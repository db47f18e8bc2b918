package cmd

import (
	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func daemonCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "daemon",
		Short: "run the maintenance jobs until interrupted",
		Run: func(cmd *cobra.Command, args []string) {
			if err := server.Start(config.LoadConfig()); err != nil {
				logrus.Fatalf("error starting server: %v", err)
			}
		},
	}

	return command
}
