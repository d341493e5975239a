package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-factorial/conformance"
	"github.com/wippyai/wasm-factorial/engine"
	"github.com/wippyai/wasm-factorial/errors"
	"github.com/wippyai/wasm-factorial/factorial"
	"github.com/wippyai/wasm-factorial/lower"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	var (
		widthStr    = flag.String("width", cfg.Width, "Accumulator width: 8, 16, 32, 64 or all")
		from        = flag.Int64("from", cfg.From, "First input of the range")
		to          = flag.Int64("to", cfg.To, "Last input of the range")
		edges       = flag.Bool("edges", false, "Also run the edge inputs of the width")
		showWAT     = flag.Bool("wat", false, "Print the lowered module as WAT and exit")
		showWIT     = flag.Bool("wit", false, "Print the WIT declaration and exit")
		outFile     = flag.String("out", "", "Write the lowered module to this file and exit")
		interp      = flag.Bool("interp", false, "Use the interpreter instead of the compiler")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.IntVar(&cfg.Parallelism, "parallel", cfg.Parallelism, "Concurrent calls per run")
	flag.Parse()
	cfg.From, cfg.To = *from, *to

	widths, err := parseWidths(*widthStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()
	engine.SetLogger(log.Named("engine"))
	conformance.SetLogger(log.Named("conformance"))

	switch {
	case *showWAT || *showWIT:
		err = dump(widths, *showWAT, *showWIT)
	case *outFile != "":
		err = writeModule(*outFile, widths)
	case *interactive:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			err = errors.InvalidInput(errors.PhaseConfig, "interactive mode needs a terminal")
			break
		}
		err = runInteractive(widths[0], &engine.Options{Interpreter: *interp})
	default:
		var ok bool
		ok, err = run(cfg, widths, *edges, &engine.Options{Interpreter: *interp}, log)
		if err == nil && !ok {
			os.Exit(1)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseWidths(s string) ([]factorial.Width, error) {
	if strings.EqualFold(s, "all") {
		return factorial.Widths, nil
	}
	w, ok := factorial.ParseWidth(s)
	if !ok {
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Value(s).
			Detail("unsupported width %q", s).
			Build()
	}
	return []factorial.Width{w}, nil
}

// run executes one suite per width and prints a report for each. It
// returns false when any width disagreed with the reference.
func run(cfg config, widths []factorial.Width, edges bool, opts *engine.Options, log *zap.Logger) (bool, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := engine.New(ctx, opts)
	if err != nil {
		return false, fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close(ctx)

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	passed := true
	for _, w := range widths {
		suite := conformance.Suite{
			Width:       w,
			Inputs:      conformance.Range(cfg.From, cfg.To),
			Parallelism: cfg.Parallelism,
		}
		if edges {
			suite.Inputs = conformance.Merge(suite.Inputs, conformance.EdgeInputs(w))
		}

		rep, err := conformance.Run(ctx, eng, suite)
		if err != nil {
			return false, fmt.Errorf("run %s: %w", w, err)
		}
		fmt.Print(renderReport(rep, styled))

		if err := rep.Err(); err != nil {
			log.Error("conformance failed", zap.Stringer("width", w), zap.Error(err))
			passed = false
		}
	}
	return passed, nil
}

func dump(widths []factorial.Width, wat, wit bool) error {
	for _, w := range widths {
		if wit {
			decl, err := lower.WITDecl(w)
			if err != nil {
				return err
			}
			fmt.Println(decl)
		}
		if wat {
			f, err := lower.Fixture(w)
			if err != nil {
				return err
			}
			fmt.Print(f.WAT())
		}
	}
	return nil
}

// writeModule writes the lowered module for a single width. With several
// widths the file name gets a width suffix before its extension.
func writeModule(path string, widths []factorial.Width) error {
	for _, w := range widths {
		bin, err := lower.Lower(w)
		if err != nil {
			return err
		}
		name := path
		if len(widths) > 1 {
			ext := ""
			if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
				name, ext = path[:i], path[i:]
			}
			name = fmt.Sprintf("%s.%s%s", name, w, ext)
		}
		if err := os.WriteFile(name, bin, 0o644); err != nil {
			return fmt.Errorf("write module: %w", err)
		}
		fmt.Printf("%s: %s (%d bytes)\n", lower.ExportName(w), name, len(bin))
	}
	return nil
}
