package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/corey/logmap/internal/app"
	"github.com/corey/logmap/internal/domain/filter"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "logmap",
	Short: "logmap — online log template miner",
	Long: "Learns structural templates from log lines incrementally and flags\n" +
		"lines that match no known template.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Int("columns", 2, "number of leading columns to ignore (timestamps)")
	pf.Int("allowed-alternatives", 0, "extra unmatched words a line may carry and still match")
	pf.Bool("keep-numeric", false, "keep purely numeric words instead of dropping them")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")

	for _, name := range []string{"columns", "allowed-alternatives", "keep-numeric", "log-level", "log-format"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// setup loads config (flags > LOGMAP_* env > ~/.logmap.yaml > defaults) and
// configures the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	viper.SetEnvPrefix("logmap")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(".logmap")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", viper.GetString("log-level"))
	}
	log.SetLevel(level)
	switch viper.GetString("log-format") {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", viper.GetString("log-format"))
	}
	log.SetOutput(os.Stderr)
	return nil
}

// filterOptions assembles the tunables from the resolved configuration.
func filterOptions() filter.Options {
	return filter.Options{
		MaxNewAlternatives: viper.GetInt("allowed-alternatives"),
		IgnoreNumeric:      !viper.GetBool("keep-numeric"),
		IgnoreFirstColumns: viper.GetInt("columns"),
	}
}

// stateFlags is the persistence flag group shared by the subcommands.
type stateFlags struct {
	load    string
	save    string
	db      string
	profile string
}

func (f *stateFlags) register(cmd *cobra.Command, withSave bool) {
	cmd.Flags().StringVarP(&f.load, "load", "l", "", "text state file to load")
	if withSave {
		cmd.Flags().StringVarP(&f.save, "save", "s", "", "text state file to save")
	}
	cmd.Flags().StringVar(&f.db, "db", "", "bbolt state database")
	cmd.Flags().StringVar(&f.profile, "profile", "", "profile name within the database")
}

func (f *stateFlags) open() (*app.State, error) {
	return app.OpenState(app.StateConfig{
		LoadPath: f.load,
		SavePath: f.save,
		DBPath:   f.db,
		Profile:  f.profile,
	})
}

// inputReader opens the given files as one concatenated stream, or stdin
// when no files are named.
func inputReader(args []string) (io.ReadCloser, error) {
	if len(args) == 0 {
		return io.NopCloser(os.Stdin), nil
	}
	files := make([]io.Reader, 0, len(args))
	closers := make([]io.Closer, 0, len(args))
	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			for _, c := range closers {
				c.Close()
			}
			return nil, err
		}
		files = append(files, f)
		closers = append(closers, f)
	}
	return &multiFileReader{Reader: io.MultiReader(files...), closers: closers}, nil
}

type multiFileReader struct {
	io.Reader
	closers []io.Closer
}

func (m *multiFileReader) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func init() {
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(dumpCmd)
}
