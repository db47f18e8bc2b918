package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"

	"github.com/emrgen/reader/internal/notify"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

func watchCmd() *cobra.Command {
	var articles bool
	var articleID string
	var generate bool

	command := &cobra.Command{
		Use:   "watch",
		Short: "print a view every time it changes",
		Long:  "print the paragraph list (default), the article list or one article every time it changes in this process",
		Example: `reader watch
reader watch --articles
reader watch -a <article-id> --generate`,
		Run: func(cmd *cobra.Command, args []string) {
			if generate && articleID == "" {
				color.Red("--generate needs --article-id\n")
				_ = cmd.Usage()
				return
			}

			spec := notify.Paragraphs()
			switch {
			case articleID != "":
				spec = notify.Article(articleID)
			case articles:
				spec = notify.Articles()
			}

			a, err := openApp()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
			defer stop()

			sub, err := a.Hub.Subscribe(ctx, spec)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer sub.Close()

			var wg sync.WaitGroup
			if generate {
				wg.Add(1)
				go func() {
					defer wg.Done()
					result, err := a.Articles.GenerateVoices(ctx, articleID, nil)
					if err != nil {
						logrus.Error(err)
						return
					}
					printBatch(result)
				}()
			}

			for snap := range sub.C() {
				printSnapshot(snap)
			}
			wg.Wait()
		},
	}

	command.Flags().BoolVar(&articles, "articles", false, "watch the article list")
	command.Flags().StringVarP(&articleID, "article-id", "a", "", "watch one article")
	command.Flags().BoolVar(&generate, "generate", false, "synthesize the missing voices of the watched article")
	command.Flags().SortFlags = false

	return command
}

func printSnapshot(snap notify.Snapshot) {
	color.Cyan("revision %d\n", snap.Revision)
	if snap.Err != nil {
		color.Red("  %v\n", snap.Err)
		return
	}

	for _, p := range snap.Paragraphs {
		fmt.Printf("  %s  %-40s  voices=%d\n", p.Paragraph.ID, p.Paragraph.Preview(40), p.VoiceCount)
	}
	for _, s := range snap.Articles {
		fmt.Printf("  %s  %s  paragraphs=%d voices=%d\n", s.Article.ID, s.Article.Name, s.ParagraphCount, s.VoiceCount)
	}
	if snap.Article != nil {
		fmt.Printf("  %s (%s)\n", snap.Article.Article.Name, snap.Article.Article.Options())
		for i, e := range snap.Article.Entries {
			state := "missing"
			if e.Selected != nil {
				state = "ready"
			}
			fmt.Printf("  %3d  %-40s  %s\n", i, e.Paragraph.Preview(40), state)
		}
	}
}
