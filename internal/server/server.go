package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/emrgen/reader/internal/app"
	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/jobs"
	"github.com/emrgen/reader/internal/notify"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server runs the background side of the reader: maintenance jobs and a log of
// article list updates.
type Server struct {
	app      *app.App
	executor *jobs.TaskExecutor
}

func NewServer(a *app.App) *Server {
	return &Server{
		app:      a,
		executor: jobs.NewTaskExecutor(cronJobs(a)),
	}
}

func cronJobs(a *app.App) []jobs.CronJob {
	schedules := a.Config.Jobs

	var list []jobs.CronJob
	if schedules.SweepSchedule != "" {
		list = append(list, jobs.NewAssetSweeper(schedules.SweepSchedule, a.Store, a.Files))
	}
	if schedules.VerifySchedule != "" {
		list = append(list, jobs.NewVoiceVerifier(schedules.VerifySchedule, a.Store, a.Pipeline))
	}
	if schedules.StatsSchedule != "" {
		list = append(list, jobs.NewStatsReporter(schedules.StatsSchedule, a.Store))
	}

	return list
}

// Run starts the jobs and follows the article list until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.executor.Run(); err != nil {
		return err
	}
	defer s.executor.Stop()

	sub, err := s.app.Hub.Subscribe(ctx, notify.Articles())
	if err != nil {
		return err
	}
	defer sub.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for snap := range sub.C() {
			if snap.Err != nil {
				logrus.Errorf("article list reload failed: %v", snap.Err)
				continue
			}
			logrus.Infof("revision %d: %d articles", snap.Revision, len(snap.Articles))
		}
	}()

	<-ctx.Done()
	sub.Close()
	wg.Wait()

	return nil
}

// Start wires the app from cfg and runs the server until SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logrus.Errorf("error closing app: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT)
	go func() {
		<-sigs
		// clean Ctrl+C output
		fmt.Println()
		cancel()
	}()

	logrus.Infof("reader daemon running, press Ctrl+C to stop")

	return NewServer(a).Run(ctx)
}
