package cmd

import (
	"os"

	"github.com/emrgen/reader/internal/tts"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func optionsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "options",
		Short: "list the selectable voice parameters",
		Run: func(cmd *cobra.Command, args []string) {
			catalog := tts.GetCatalog()
			defaults := tts.DefaultOptions

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Parameter", "Value", "Label", "Default"})
			appendOptions := func(name string, options []tts.Option, def string) {
				for _, o := range options {
					mark := ""
					if o.Value == def {
						mark = "*"
					}
					table.Append([]string{name, o.Value, o.Label, mark})
				}
			}
			appendOptions("voice", catalog.Voices, defaults.Voice)
			appendOptions("speed", catalog.Speeds, defaults.Speed)
			appendOptions("pitch", catalog.Pitches, defaults.Pitch)
			appendOptions("style", catalog.Styles, defaults.Style)

			table.Render()
		},
	}

	return command
}
