package cmd

import (
	"context"
	"os"

	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/synth"
	"github.com/emrgen/reader/internal/tts"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "voice commands",
}

func init() {
	voiceCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	voiceCmd.AddCommand(generateVoiceCmd())
	voiceCmd.AddCommand(listVoiceCmd())
	voiceCmd.AddCommand(defaultVoiceCmd())
	voiceCmd.AddCommand(deleteVoiceCmd())
}

func generateVoiceCmd() *cobra.Command {
	var paragraphID string
	var opts model.VoiceOptions

	var required = []string{"paragraph-id"}

	command := &cobra.Command{
		Use:     "generate",
		Short:   "resolve the voice of a paragraph, synthesizing it when missing",
		Example: "reader voice generate -p <paragraph-id> --voice en-US-GuyNeural",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			ctx := context.Background()
			p, err := a.Paragraphs.GetParagraph(ctx, paragraphID)
			if err != nil {
				logrus.Error(err)
				return
			}

			v, err := a.Pipeline.Resolve(ctx, synth.Request{
				ParagraphID: p.ID,
				Text:        p.Text,
				Options:     tts.Merge(tts.DefaultOptions, opts),
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("Voice", v.ID)
			printField("Options", v.Options().String())
			printField("Asset", v.AudioAssetID)
		},
	}

	command.Flags().StringVarP(&paragraphID, "paragraph-id", "p", "", "paragraph id (required)")
	bindVoiceFlags(command, &opts)
	command.Flags().SortFlags = false

	return command
}

func listVoiceCmd() *cobra.Command {
	var paragraphID string

	var required = []string{"paragraph-id"}

	command := &cobra.Command{
		Use:   "list",
		Short: "list the voices of a paragraph, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			ctx := context.Background()
			p, err := a.Paragraphs.GetParagraph(ctx, paragraphID)
			if err != nil {
				logrus.Error(err)
				return
			}

			voices, err := a.Paragraphs.ListVoices(ctx, paragraphID)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Options", "Asset", "Created", "Default"})
			for _, v := range voices {
				isDefault := ""
				if p.DefaultVoiceID != nil && *p.DefaultVoiceID == v.ID {
					isDefault = "*"
				}
				table.Append([]string{v.ID, v.Options().String(), v.AudioAssetID, v.CreatedAt.Format("2006-01-02 15:04:05"), isDefault})
			}

			table.Render()
		},
	}

	command.Flags().StringVarP(&paragraphID, "paragraph-id", "p", "", "paragraph id (required)")

	return command
}

func defaultVoiceCmd() *cobra.Command {
	var paragraphID string
	var voiceID string

	var required = []string{"paragraph-id", "voice-id"}

	command := &cobra.Command{
		Use:   "default",
		Short: "set the default voice of a paragraph",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			if err := a.Paragraphs.SetDefaultVoice(context.Background(), paragraphID, voiceID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("default voice of %s set to %s", paragraphID, voiceID)
		},
	}

	command.Flags().StringVarP(&paragraphID, "paragraph-id", "p", "", "paragraph id (required)")
	command.Flags().StringVarP(&voiceID, "voice-id", "v", "", "voice id (required)")
	command.Flags().SortFlags = false

	return command
}

func deleteVoiceCmd() *cobra.Command {
	var voiceID string

	var required = []string{"voice-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a voice and its audio",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			if err := a.Pipeline.DeleteVoice(context.Background(), voiceID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("voice %s deleted", voiceID)
		},
	}

	command.Flags().StringVarP(&voiceID, "voice-id", "v", "", "voice id (required)")

	return command
}
