// Package cmd implements the CLI application to compare purchases to benchmarks.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/appreciation"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Commands lists the subcommands of the application, in help order.
var Commands = []subcommands.Command{
	&reportCmd{},
	&chartCmd{},
	&fmtCmd{},
	&importCmd{},
	&topicCmd{},
	subcommands.HelpCommand(),
	subcommands.FlagsCommand(),
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataFlag = flag.String("data", "", "Path to the dataset: a JSONL file, a directory of CSV files, or \"sample:<name>\". Defaults to $APR_DATA or sample:jvm.")
var configFlag = flag.String("config", "", "Path to the TOML configuration file. Defaults to $APR_CONFIG, or the built-in benchmarks.")
var cacheFlag = flag.String("cache", "", "Directory where fetched quotes are cached for the day. Defaults to the user cache directory.")
var verboseFlag = flag.Bool("v", false, "Log debug messages.")

// DefaultData is the dataset used when neither -data nor APR_DATA is set.
const DefaultData = appreciation.SamplePrefix + "jvm"

// DataPath returns the dataset path selected by the user.
func DataPath() string {
	return firstOf(*dataFlag, os.Getenv("APR_DATA"), DefaultData)
}

// ConfigPath returns the configuration file selected by the user, or "" for the defaults.
func ConfigPath() string {
	return firstOf(*configFlag, os.Getenv("APR_CONFIG"))
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SetupLogging configures the global logger on stderr.
func SetupLogging() {
	level := zerolog.InfoLevel
	if *verboseFlag {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()
}

// LoadDataset loads the dataset selected by the user.
func LoadDataset() (*appreciation.Dataset, error) {
	path := DataPath()
	log.Debug().Str("path", path).Msg("loading dataset")
	return appreciation.LoadDataset(path)
}

// LoadConfig loads the configuration selected by the user.
func LoadConfig() (*appreciation.Config, error) {
	path := ConfigPath()
	if path == "" {
		return appreciation.DefaultConfig(), nil
	}
	log.Debug().Str("path", path).Msg("loading config")
	return appreciation.LoadConfig(path)
}

// NewQuoter returns a quoter caching fetched quotes for the day.
func NewQuoter() *appreciation.Quoter {
	dir := *cacheFlag
	if dir == "" {
		if d, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(d, "apr")
		}
	}
	if dir == "" {
		return appreciation.NewQuoter(nil)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("quote cache disabled")
		return appreciation.NewQuoter(nil)
	}
	return appreciation.NewQuoter(appreciation.DailyClient(dir))
}

// compare loads the dataset and the configuration and compares them.
func compare(ctx context.Context) (*appreciation.Comparison, *appreciation.Config, error) {
	ds, err := LoadDataset()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	c, err := appreciation.Compare(ctx, ds, cfg, NewQuoter())
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

// printMarkdown renders md for the terminal, or prints it raw if rendering fails.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	log.Debug().Err(err).Msg("markdown rendering failed")
	fmt.Print(md)
}
