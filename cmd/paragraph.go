package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var paragraphCmd = &cobra.Command{
	Use:   "paragraph",
	Short: "paragraph pool commands",
}

func init() {
	paragraphCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	paragraphCmd.AddCommand(createParagraphCmd())
	paragraphCmd.AddCommand(listParagraphCmd())
	paragraphCmd.AddCommand(editParagraphCmd())
	paragraphCmd.AddCommand(deleteParagraphCmd())
	paragraphCmd.AddCommand(reorderParagraphCmd())
	paragraphCmd.AddCommand(moveParagraphCmd())
}

func createParagraphCmd() *cobra.Command {
	var text string

	var required = []string{"text"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a paragraph",
		Example: "reader paragraph create -t <text>",
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

			p, err := a.Paragraphs.CreateParagraph(context.Background(), text)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("paragraph created with id: %s", p.ID)
		},
	}

	command.Flags().StringVarP(&text, "text", "t", "", "text of the paragraph (required)")
	command.Flags().SortFlags = false

	return command
}

func listParagraphCmd() *cobra.Command {
	var width int

	command := &cobra.Command{
		Use:   "list",
		Short: "list the paragraph pool",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			paragraphs, err := a.Paragraphs.ListParagraphs(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "ID", "Text", "Voices", "Default"})
			for i, p := range paragraphs {
				defaultVoice := ""
				if p.Paragraph.DefaultVoiceID != nil {
					defaultVoice = *p.Paragraph.DefaultVoiceID
				}
				table.Append([]string{
					strconv.Itoa(i),
					p.Paragraph.ID,
					p.Paragraph.Preview(width),
					strconv.FormatInt(p.VoiceCount, 10),
					defaultVoice,
				})
			}

			table.Render()
		},
	}

	command.Flags().IntVarP(&width, "width", "w", 40, "preview width in characters")

	return command
}

func editParagraphCmd() *cobra.Command {
	var paragraphID string
	var text string

	var required = []string{"paragraph-id", "text"}

	command := &cobra.Command{
		Use:     "edit",
		Short:   "replace the text of a paragraph",
		Long:    "replace the text of a paragraph, dropping its voices when the text changes",
		Example: "reader paragraph edit -p <paragraph-id> -t <text>",
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

			p, err := a.Paragraphs.UpdateParagraphText(context.Background(), paragraphID, text)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("ID", p.ID)
			printField("Text", p.Preview(60))
		},
	}

	command.Flags().StringVarP(&paragraphID, "paragraph-id", "p", "", "paragraph id (required)")
	command.Flags().StringVarP(&text, "text", "t", "", "new text (required)")
	command.Flags().SortFlags = false

	return command
}

func deleteParagraphCmd() *cobra.Command {
	var paragraphID string

	var required = []string{"paragraph-id"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "delete a paragraph, its voices and its references",
		Example: "reader paragraph delete -p <paragraph-id>",
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

			if err := a.Paragraphs.DeleteParagraph(context.Background(), paragraphID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("paragraph %s deleted", paragraphID)
		},
	}

	command.Flags().StringVarP(&paragraphID, "paragraph-id", "p", "", "paragraph id (required)")

	return command
}

func reorderParagraphCmd() *cobra.Command {
	var ids []string

	var required = []string{"ids"}

	command := &cobra.Command{
		Use:     "reorder",
		Short:   "set the pool order",
		Example: "reader paragraph reorder -i <id>,<id>,<id>",
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

			if err := a.Paragraphs.ReorderParagraphs(context.Background(), ids); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("reordered %d paragraphs", len(ids))
		},
	}

	command.Flags().StringSliceVarP(&ids, "ids", "i", nil, "paragraph ids in their new order (required)")

	return command
}

func moveParagraphCmd() *cobra.Command {
	var from int
	var to int

	var required = []string{"from", "to"}

	command := &cobra.Command{
		Use:     "move",
		Short:   "move a paragraph within the pool",
		Example: "reader paragraph move --from 3 --to 0",
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

			if err := a.Paragraphs.MoveParagraph(context.Background(), from, to); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("moved paragraph %d to %d", from, to)
		},
	}

	command.Flags().IntVar(&from, "from", 0, "current position (required)")
	command.Flags().IntVar(&to, "to", 0, "new position (required)")
	command.Flags().SortFlags = false

	return command
}
