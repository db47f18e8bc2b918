package jobs

import (
	"context"
	"time"

	"github.com/emrgen/reader/internal/store"
	"github.com/sirupsen/logrus"
)

// Stats are the record counts of the store.
type Stats struct {
	Paragraphs int64
	Articles   int64
	Voices     int64
}

// StatsReporter logs the record counts on a schedule.
type StatsReporter struct {
	store    store.Store
	schedule string
}

func NewStatsReporter(schedule string, store store.Store) *StatsReporter {
	return &StatsReporter{store: store, schedule: schedule}
}

func (s *StatsReporter) Name() string {
	return "stats_reporter"
}

func (s *StatsReporter) Schedule() string {
	return s.schedule
}

func (s *StatsReporter) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := Collect(ctx, s.store)
	if err != nil {
		logrus.Errorf("stats: %v", err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"paragraphs": stats.Paragraphs,
		"articles":   stats.Articles,
		"voices":     stats.Voices,
		"revision":   s.store.Revision(),
	}).Info("store stats")
}

func Collect(ctx context.Context, s store.Store) (Stats, error) {
	var stats Stats
	var err error

	if stats.Paragraphs, err = s.CountParagraphs(ctx); err != nil {
		return stats, err
	}
	if stats.Articles, err = s.CountArticles(ctx); err != nil {
		return stats, err
	}
	if stats.Voices, err = s.CountVoices(ctx); err != nil {
		return stats, err
	}

	return stats, nil
}
