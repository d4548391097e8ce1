package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/argonlang/argon/builtins"
	"github.com/argonlang/argon/internal/config"
	"github.com/argonlang/argon/internal/objectabi"
	"github.com/argonlang/argon/internal/sched"
	"github.com/argonlang/argon/internal/trace"
	"github.com/argonlang/argon/internal/vm"
)

// Exit codes follow the convention external callers (shell scripts,
// supervisors) check: 0 success, 1 uncaught panic from the running
// program, 2 a CLI/usage error before anything ran.
const (
	exitOK       = 0
	exitPanic    = 1
	exitUsageErr = 2
)

func main() {
	configPath := flag.String("config", "argon.yaml", "path to configuration file")
	vcores := flag.Int("vcores", 0, "number of VCores (0 = detect)")
	maxOST := flag.Int("max-ost", 0, "maximum OS-thread workers (0 = derive from vcores)")
	traceEnabled := flag.Bool("trace", false, "enable execution tracing")
	traceFilter := flag.String("trace-filter", "", "trace filter pattern (glob, comma separated)")
	inspect := flag.Bool("inspect", false, "print opcode/type tables and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "argon: loading config: %v\n", err)
		os.Exit(exitUsageErr)
	}
	if *vcores != 0 {
		cfg.VCores = *vcores
	}
	if *maxOST != 0 {
		cfg.MaxOST = *maxOST
	}
	if *traceEnabled {
		cfg.Trace = true
	}
	if *traceFilter != "" {
		cfg.TraceFilters = strings.Split(*traceFilter, ",")
	}

	if cfg.Trace {
		trace.Init(true, cfg.TraceFilters, os.Stderr)
		log.Printf("tracing enabled (filters: %v)", cfg.TraceFilters)
	}

	if *inspect {
		printInspection()
		os.Exit(exitOK)
	}

	scheduler := sched.New(cfg.VCores, cfg.MaxOST)
	scheduler.Run()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "argon: shutdown: %v\n", err)
		}
	}()

	registry := builtins.NewRegistry()
	_ = registry

	args := flag.Args()
	if len(args) == 0 {
		runREPL(scheduler)
		return
	}

	fmt.Fprintf(os.Stderr, "argon: script execution from a Code object requires a compiler front end not built by this binary\n")
	os.Exit(exitUsageErr)
}

func printInspection() {
	bold := color.New(color.Bold)
	bold.Println("Object ABI kinds:")
	for _, t := range []*objectabi.Type{
		objectabi.NilType, objectabi.BoolType, objectabi.IntType, objectabi.FloatType,
		objectabi.StrType, objectabi.ListType, objectabi.MapType, objectabi.FuncType,
		objectabi.ErrorType, objectabi.CodeType,
	} {
		fmt.Printf("  %s\n", t.Name)
	}

	bold.Println("\nOpcodes:")
	for op := vm.OpNOP; op < 90; op++ {
		name := op.String()
		if name == "UNKNOWN" {
			continue
		}
		fmt.Printf("  %-10s width=%d\n", name, op.Width())
	}
}
