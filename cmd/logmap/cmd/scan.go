package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/corey/logmap/internal/app"
)

var scanState stateFlags

var scanCmd = &cobra.Command{
	Use:   "scan [FILE...]",
	Short: "Print lines no known template matches",
	Long: "Classifies log lines from the named files (or stdin) against the\n" +
		"loaded template set without learning. Lines no template accepts are\n" +
		"printed to stdout.",
	RunE: runScan,
}

func init() {
	scanState.register(scanCmd, false)
}

func runScan(cmd *cobra.Command, args []string) error {
	state, err := scanState.open()
	if err != nil {
		return err
	}
	defer state.Close()

	set, found, err := state.Load(filterOptions(), log)
	if err != nil {
		return err
	}
	if !found {
		log.Warn("no state loaded, every line will be reported as unknown")
	}

	in, err := inputReader(args)
	if err != nil {
		return err
	}
	defer in.Close()

	total, unknown, err := app.ScanReader(in, os.Stdout, set)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"lines":   total,
		"unknown": unknown,
	}).Info("scan complete")
	return nil
}
