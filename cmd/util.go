package cmd

import (
	"fmt"
	"strings"

	"github.com/emrgen/reader/internal/app"
	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func openApp() (*app.App, error) {
	return app.New(config.LoadConfig())
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags reports the required flags that were not set and prints the usage
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) == 0 {
		return false
	}

	var msg string
	for _, f := range missingFlags {
		msg += fmt.Sprintf("--%s ", f)
	}

	color.Red("missing: %s\n", msg)
	if len(providedFlags) > 0 {
		color.Green("provide: %s\n", strings.Join(providedFlags, " "))
	}

	cmd.Println("")
	_ = cmd.Usage()

	return true
}

// bindVoiceFlags registers the voice parameter flags. Unset flags stay empty.
func bindVoiceFlags(command *cobra.Command, opts *model.VoiceOptions) {
	command.Flags().StringVar(&opts.Voice, "voice", "", "voice name")
	command.Flags().StringVar(&opts.Speed, "speed", "", "speaking speed")
	command.Flags().StringVar(&opts.Pitch, "pitch", "", "pitch")
	command.Flags().StringVar(&opts.Style, "style", "", "speaking style")
}
