package cmd

import (
	"context"

	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/model"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
	dbCmd.AddCommand(Seed())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			db := config.GetDb(config.LoadConfig())
			err := model.Migrate(db)
			if err != nil {
				panic(err)
			}
		},
	}

	return command
}

func Seed() *cobra.Command {
	command := &cobra.Command{
		Use:   "seed",
		Short: "Seed the paragraph pool with sample texts when it is empty",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			n, err := a.Paragraphs.SeedSamples(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("seeded %d paragraphs", n)
		},
	}

	return command
}
