package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corey/logmap/internal/adapters/tailer"
	"github.com/corey/logmap/internal/domain/filter"
)

// FollowConfig holds parameters for follow mode.
type FollowConfig struct {
	Path         string        // log file to follow
	FromStart    bool          // learn the file's existing content first
	PollInterval time.Duration // tailer fallback poll, 0 for default
	SaveInterval time.Duration // periodic state save, default 30s
}

// Follow tails a log file and learns every appended line until ctx is
// cancelled. State is saved on the configured interval and once more on
// shutdown. The set is guarded internally: the tailer delivers lines from
// its own goroutine while saves run here.
func Follow(ctx context.Context, cfg FollowConfig, set *filter.Set, state *State, log logrus.FieldLogger) error {
	saveInterval := cfg.SaveInterval
	if saveInterval == 0 {
		saveInterval = 30 * time.Second
	}

	var mu sync.Mutex
	tl, err := tailer.New(tailer.Config{
		Path:         cfg.Path,
		PollInterval: cfg.PollInterval,
		FromStart:    cfg.FromStart,
		Callback: func(line string) {
			mu.Lock()
			set.LearnLine(line)
			mu.Unlock()
		},
		OnError: func(err error) {
			log.WithError(err).Warn("file watch error")
		},
	})
	if err != nil {
		return err
	}
	if err := tl.Start(); err != nil {
		return err
	}
	defer tl.Stop()

	log.WithFields(logrus.Fields{
		"file":      tl.Path(),
		"templates": set.TemplateCount(),
	}).Info("following")

	save := func() error {
		mu.Lock()
		defer mu.Unlock()
		if err := state.Save(set); err != nil {
			return err
		}
		log.WithField("templates", set.TemplateCount()).Debug("state saved")
		return nil
	}

	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Stop first so no learn races the final save.
			tl.Stop()
			if state.Persistent() {
				if err := save(); err != nil {
					return err
				}
			}
			return nil
		case <-ticker.C:
			if state.Persistent() {
				if err := save(); err != nil {
					log.WithError(err).Error("periodic save failed")
				}
			}
		}
	}
}
