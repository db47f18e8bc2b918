package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reader",
	Short: "paragraph reader with cached voice synthesis",
	Example: `reader db migrate
reader paragraph create -t <text>
reader paragraph list
reader article create -n <name> -p <paragraph-id>,<paragraph-id>
reader article show -a <article-id>
reader article voice -a <article-id> --voice en-US-JennyNeural --speed 1.2
reader article generate -a <article-id>
reader voice generate -p <paragraph-id>
reader watch --articles
reader daemon`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(paragraphCmd)
	rootCmd.AddCommand(articleCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(daemonCmd())
	rootCmd.AddCommand(optionsCmd())
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
