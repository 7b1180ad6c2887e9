package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/logmap/internal/app"
)

var (
	followState        stateFlags
	followFromStart    bool
	followSaveInterval time.Duration
	followPollInterval time.Duration
)

var followCmd = &cobra.Command{
	Use:   "follow FILE",
	Short: "Tail a log file and learn continuously",
	Long: "Follows a growing log file, learning every appended line. Survives\n" +
		"truncation and rotation. State is saved periodically and on shutdown\n" +
		"(SIGINT/SIGTERM).",
	Args: cobra.ExactArgs(1),
	RunE: runFollow,
}

func init() {
	followState.register(followCmd, true)
	followCmd.Flags().BoolVar(&followFromStart, "from-start", false, "learn the file's existing content before following")
	followCmd.Flags().DurationVar(&followSaveInterval, "save-interval", 30*time.Second, "how often to persist state")
	followCmd.Flags().DurationVar(&followPollInterval, "poll-interval", 500*time.Millisecond, "fallback poll interval for file changes")
}

func runFollow(cmd *cobra.Command, args []string) error {
	state, err := followState.open()
	if err != nil {
		return err
	}
	defer state.Close()

	set, found, err := state.Load(filterOptions(), log)
	if err != nil {
		return err
	}
	if found {
		log.WithField("templates", set.TemplateCount()).Info("loaded state")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Follow(ctx, app.FollowConfig{
		Path:         args[0],
		FromStart:    followFromStart,
		PollInterval: followPollInterval,
		SaveInterval: followSaveInterval,
	}, set, state, log)
}
