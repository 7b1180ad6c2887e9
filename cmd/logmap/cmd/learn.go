package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/corey/logmap/internal/app"
)

var learnState stateFlags

var learnCmd = &cobra.Command{
	Use:   "learn [FILE...]",
	Short: "Learn templates from log lines",
	Long: "Reads log lines from the named files (or stdin) and folds each one\n" +
		"into the template set, extending existing templates or creating new\n" +
		"ones. State can be loaded from and saved to a text file or a bbolt\n" +
		"profile.",
	RunE: runLearn,
}

func init() {
	learnState.register(learnCmd, true)
}

func runLearn(cmd *cobra.Command, args []string) error {
	state, err := learnState.open()
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

	in, err := inputReader(args)
	if err != nil {
		return err
	}
	defer in.Close()

	lines, err := app.LearnReader(in, set, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"lines":     lines,
		"templates": set.TemplateCount(),
	}).Info("done")

	if err := state.Save(set); err != nil {
		return err
	}
	if !state.Persistent() {
		// Nowhere to save: print the learned templates instead.
		fmt.Fprintln(os.Stdout, set.Render())
	}
	return nil
}
