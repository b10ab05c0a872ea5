package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/appreciation/docs"
	"github.com/google/subcommands"
)

type topicCmd struct {
	raw bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `apr topic [-raw] [<topic>...]

  Shows the documentation of the given topics, "*" for all of them.
  Without topic, lists the available topics.

Usage Examples:
# How the appreciation is computed.
$ apr topic appreciation

`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print plain markdown instead of rendering it.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var doc string
	var err error
	if f.NArg() == 0 {
		doc, err = topicIndex()
	} else {
		doc, err = docs.GetTopics(f.Args()...)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading doc: %v\nAvailable topics: %s\n", err, strings.Join(docs.AllTopics(), ", "))
		return subcommands.ExitFailure
	}

	if c.raw {
		fmt.Print(doc)
	} else {
		printMarkdown(doc)
	}
	return subcommands.ExitSuccess
}

// topicIndex lists every topic with its title.
func topicIndex() (string, error) {
	var b strings.Builder
	b.WriteString("# Topics\n\nRun `apr topic <topic>` to read one, `apr topic '*'` to read them all.\n\n")
	for _, name := range docs.AllTopics() {
		content, err := docs.GetTopic(name)
		if err != nil {
			return "", err
		}
		title, _, _ := strings.Cut(content, "\n")
		fmt.Fprintf(&b, "* `%s`: %s\n", name, strings.TrimPrefix(title, "# "))
	}
	return b.String(), nil
}
