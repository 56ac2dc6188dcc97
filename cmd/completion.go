package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/stocksim/docs"
)

// periods predicts the -p flag values.
var periods = predict.Set{"daily", "weekly", "monthly", "quarterly", "yearly"}

// Complete answers a shell completion request for the registered commands and
// exits. It returns immediately when the process is not a completion request.
//
// Run the program with COMP_INSTALL=1 to install the completion in the shell.
func Complete(c *subcommands.Commander, name string) {
	completionCommand(c).Complete(name)
}

// completionCommand describes the registered commands and their flags.
func completionCommand(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{Sub: map[string]*complete.Command{}}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		f.VisitAll(func(fl *flag.Flag) {
			sub.Flags[fl.Name] = flagPredictor(fl)
		})
		switch cmd.Name() {
		case "topic":
			if topics, err := docs.GetAllTopics(); err == nil {
				sub.Args = predict.Set(append(topics, docs.Readme))
			}
		case "help":
			sub.Args = predict.Set(commandNames(c))
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

func flagPredictor(fl *flag.Flag) complete.Predictor {
	if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	if fl.Name == "p" {
		return periods
	}
	return predict.Something
}

func commandNames(c *subcommands.Commander) (names []string) {
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		names = append(names, cmd.Name())
	})
	return names
}
