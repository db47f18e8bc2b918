package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/emrgen/reader/internal/model"
	"github.com/emrgen/reader/internal/synth"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "article commands",
}

func init() {
	articleCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	articleCmd.AddCommand(createArticleCmd())
	articleCmd.AddCommand(listArticleCmd())
	articleCmd.AddCommand(showArticleCmd())
	articleCmd.AddCommand(renameArticleCmd())
	articleCmd.AddCommand(orderArticleCmd())
	articleCmd.AddCommand(appendArticleCmd())
	articleCmd.AddCommand(voiceArticleCmd())
	articleCmd.AddCommand(deleteArticleCmd())
	articleCmd.AddCommand(generateArticleCmd())
}

func createArticleCmd() *cobra.Command {
	var name string
	var paragraphIDs []string

	command := &cobra.Command{
		Use:     "create",
		Short:   "create an article",
		Example: "reader article create -n <name> -p <paragraph-id>,<paragraph-id>",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			article, err := a.Articles.CreateArticle(context.Background(), name, paragraphIDs)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("article created with id: %s", article.ID)
		},
	}

	command.Flags().StringVarP(&name, "name", "n", "Untitled", "article name")
	command.Flags().StringSliceVarP(&paragraphIDs, "paragraph-ids", "p", nil, "paragraph ids in reading order")
	command.Flags().SortFlags = false

	return command
}

func listArticleCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list articles",
		Run: func(cmd *cobra.Command, args []string) {
			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			articles, err := a.Articles.ListArticles(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Paragraphs", "Voices", "Voice", "Updated"})
			for _, s := range articles {
				table.Append([]string{
					s.Article.ID,
					s.Article.Name,
					strconv.Itoa(s.ParagraphCount),
					strconv.FormatInt(s.VoiceCount, 10),
					s.Article.Options().String(),
					s.Article.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}

			table.Render()
		},
	}

	return command
}

func showArticleCmd() *cobra.Command {
	var articleID string

	var required = []string{"article-id"}

	command := &cobra.Command{
		Use:     "show",
		Short:   "show an article with its paragraphs and voices",
		Example: "reader article show -a <article-id>",
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

			v, err := a.Articles.GetArticleView(context.Background(), articleID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("ID", v.Article.ID)
			printField("Name", v.Article.Name)
			printField("Voice", v.Article.Options().String())

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "Paragraph", "Text", "Voices", "Selected"})
			for i, e := range v.Entries {
				selected := color.RedString("missing")
				if e.Selected != nil {
					selected = e.Selected.ID
				}
				table.Append([]string{
					strconv.Itoa(i),
					e.Paragraph.ID,
					e.Paragraph.Preview(40),
					strconv.Itoa(len(e.Voices)),
					selected,
				})
			}

			table.Render()
		},
	}

	command.Flags().StringVarP(&articleID, "article-id", "a", "", "article id (required)")

	return command
}

func renameArticleCmd() *cobra.Command {
	var articleID string
	var name string

	var required = []string{"article-id", "name"}

	command := &cobra.Command{
		Use:   "rename",
		Short: "rename an article",
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

			if _, err := a.Articles.RenameArticle(context.Background(), articleID, name); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("article %s renamed", articleID)
		},
	}

	command.Flags().StringVarP(&articleID, "article-id", "a", "", "article id (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "new name (required)")
	command.Flags().SortFlags = false

	return command
}

func orderArticleCmd() *cobra.Command {
	var articleID string
	var paragraphIDs []string
	var from int
	var to int

	var required = []string{"article-id"}

	command := &cobra.Command{
		Use:   "order",
		Short: "set or move the paragraph sequence of an article",
		Example: `reader article order -a <article-id> -p <paragraph-id>,<paragraph-id>
reader article order -a <article-id> --from 2 --to 0`,
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			move := cmd.Flag("from").Changed || cmd.Flag("to").Changed
			if move == cmd.Flag("paragraph-ids").Changed {
				color.Red("use either --paragraph-ids or --from and --to\n")
				_ = cmd.Usage()
				return
			}

			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			var article *model.Article
			if move {
				article, err = a.Articles.MoveArticleParagraph(context.Background(), articleID, from, to)
			} else {
				article, err = a.Articles.SetArticleParagraphOrder(context.Background(), articleID, paragraphIDs)
			}
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("article %s now lists %d paragraphs", article.ID, len(article.ParagraphIDs))
		},
	}

	command.Flags().StringVarP(&articleID, "article-id", "a", "", "article id (required)")
	command.Flags().StringSliceVarP(&paragraphIDs, "paragraph-ids", "p", nil, "the full new sequence")
	command.Flags().IntVar(&from, "from", 0, "position to move from")
	command.Flags().IntVar(&to, "to", 0, "position to move to")
	command.Flags().SortFlags = false

	return command
}

func appendArticleCmd() *cobra.Command {
	var articleID string
	var paragraphIDs []string

	var required = []string{"article-id", "paragraph-ids"}

	command := &cobra.Command{
		Use:     "append",
		Short:   "append paragraphs to an article",
		Example: "reader article append -a <article-id> -p <paragraph-id>",
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

			article, err := a.Articles.AppendParagraphs(context.Background(), articleID, paragraphIDs)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("article %s now lists %d paragraphs", article.ID, len(article.ParagraphIDs))
		},
	}

	command.Flags().StringVarP(&articleID, "article-id", "a", "", "article id (required)")
	command.Flags().StringSliceVarP(&paragraphIDs, "paragraph-ids", "p", nil, "paragraph ids to append (required)")
	command.Flags().SortFlags = false

	return command
}

func voiceArticleCmd() *cobra.Command {
	var articleID string
	var opts model.VoiceOptions

	var required = []string{"article-id"}

	command := &cobra.Command{
		Use:     "voice",
		Short:   "set the voice parameters of an article",
		Example: "reader article voice -a <article-id> --voice en-US-JennyNeural --speed 1.2",
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

			article, err := a.Articles.SetVoiceOptions(context.Background(), articleID, opts)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("Voice", article.Options().String())
		},
	}

	command.Flags().StringVarP(&articleID, "article-id", "a", "", "article id (required)")
	bindVoiceFlags(command, &opts)
	command.Flags().SortFlags = false

	return command
}

func deleteArticleCmd() *cobra.Command {
	var articleID string

	var required = []string{"article-id"}

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete an article, keeping its paragraphs",
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

			if err := a.Articles.DeleteArticle(context.Background(), articleID); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("article %s deleted", articleID)
		},
	}

	command.Flags().StringVarP(&articleID, "article-id", "a", "", "article id (required)")

	return command
}

func generateArticleCmd() *cobra.Command {
	var articleID string

	var required = []string{"article-id"}

	command := &cobra.Command{
		Use:     "generate",
		Short:   "synthesize the missing voices of an article",
		Long:    "synthesize the missing voices of an article with its voice parameters; Ctrl+C stops dispatching new paragraphs",
		Example: "reader article generate -a <article-id>",
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

			ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
			defer stop()

			progress := &synth.Progress{OnUpdate: func(completed, total int64) {
				fmt.Printf("\rsynthesized %d/%d", completed, total)
			}}

			result, err := a.Articles.GenerateVoices(ctx, articleID, progress)
			if progress.Total() > 0 {
				fmt.Println()
			}
			if err != nil {
				logrus.Error(err)
				return
			}

			printBatch(result)
		},
	}

	command.Flags().StringVarP(&articleID, "article-id", "a", "", "article id (required)")

	return command
}

func printBatch(result *synth.BatchResult) {
	switch result.Status() {
	case synth.BatchNothing:
		color.Yellow("nothing to synthesize\n")
	case synth.BatchComplete:
		color.Green("%s\n", result.Summary())
	default:
		color.Red("%s\n", result.Summary())
		for _, f := range result.Failed {
			fmt.Printf("  %s: %v\n", f.Request.ParagraphID, f.Err)
		}
	}
}
