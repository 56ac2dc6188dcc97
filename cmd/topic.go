package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim/docs"
)

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the user manual" }
func (*topicCmd) Usage() string {
	return `stocksim topic [-l] [<topic>...]

  Prints the manual topics in order. Without a topic it prints the readme,
  which describes every topic; "*" prints them all.

  Topics: trading, valuation, session-file, configuration.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "l", false, "List the topic names, one per line.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		topics, err := docs.GetAllTopics()
		if err != nil {
			return fail("listing topics: %v", err)
		}
		fmt.Fprintln(stdout, strings.Join(topics, "\n"))
		return subcommands.ExitSuccess
	}

	names := f.Args()
	if len(names) == 0 {
		names = []string{docs.Readme}
	}
	doc, err := docs.GetTopics(names...)
	if errors.Is(err, docs.ErrUnknownTopic) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if topics, err := docs.GetAllTopics(); err == nil {
			fmt.Fprintf(stderr, "Available topics: %s\n", strings.Join(topics, ", "))
		}
		return subcommands.ExitUsageError
	}
	if err != nil {
		return fail("reading manual: %v", err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
