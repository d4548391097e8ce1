package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/argonlang/argon/internal/sched"
)

// runREPL is a minimal interactive shell: it cannot compile source (no
// front end in this module, per spec §1), but it accepts a small set of
// introspection commands useful while the scheduler is live — enough of
// a REPL shape for manual smoke-testing a running instance, grounded on
// the pack's readline-based CLI style.
func runREPL(scheduler *sched.Scheduler) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          color.CyanString("argon> "),
		HistoryFile:     historyFilePath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "argon: readline: %v\n", err)
		os.Exit(exitUsageErr)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return
		case line == "help":
			printHelp()
		case line == "status":
			printStatus(scheduler)
		default:
			fmt.Printf("argon: no compiler wired into this build — can't evaluate %q\n", line)
		}
	}
}

func printHelp() {
	fmt.Println("commands: help, status, exit")
}

func printStatus(scheduler *sched.Scheduler) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"field", "value"})
	table.Append([]string{"scheduler", fmt.Sprintf("%p", scheduler)})
	table.Render()
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".argon_history"
	}
	return home + "/.argon_history"
}
