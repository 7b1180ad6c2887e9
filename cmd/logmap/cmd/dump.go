package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var dumpState stateFlags

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print templates and the word index",
	Long: "Prints every template with its id, followed by the reverse word\n" +
		"index. Debug aid for inspecting saved state.",
	RunE: runDump,
}

func init() {
	dumpState.register(dumpCmd, false)
}

func runDump(cmd *cobra.Command, args []string) error {
	state, err := dumpState.open()
	if err != nil {
		return err
	}
	defer state.Close()

	set, _, err := state.Load(filterOptions(), log)
	if err != nil {
		return err
	}
	set.Dump(os.Stdout)
	return nil
}
