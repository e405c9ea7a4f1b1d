package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovelang/grove/grove"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "tokens":
		return tokensCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "repl":
		return runREPL()
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func tokensCommand(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("grove tokens: source path required")
	}

	root, err := scanFile(remaining[0])
	if err != nil {
		return err
	}

	switch *format {
	case "text":
		fmt.Print(grove.Format(root))
	case "json":
		data, err := grove.EncodeJSON(root)
		if err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		fmt.Println(string(data))
	default:
		return fmt.Errorf("grove tokens: unknown format %q", *format)
	}
	return nil
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("grove check: source path required")
	}

	failures := 0
	for _, path := range remaining {
		if _, err := scanFile(path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("grove check: %d file(s) failed", failures)
	}
	return nil
}

func scanFile(path string) (grove.Token, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return grove.Token{}, fmt.Errorf("resolve source path: %w", err)
	}
	input, err := os.ReadFile(absPath)
	if err != nil {
		return grove.Token{}, fmt.Errorf("read source: %w", err)
	}
	root, err := grove.Scan(filepath.Base(absPath), string(input))
	if err != nil {
		return grove.Token{}, fmt.Errorf("scan failed: %w", err)
	}
	return root, nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args...]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  tokens [-format text|json] <file>")
	fmt.Fprintln(os.Stderr, "    scan a source file and print its token tree")
	fmt.Fprintln(os.Stderr, "  check <file>...")
	fmt.Fprintln(os.Stderr, "    scan source files and report failures")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <path>...")
	fmt.Fprintln(os.Stderr, "    normalize whitespace in .grv files")
	fmt.Fprintln(os.Stderr, "  analyze <file>")
	fmt.Fprintln(os.Stderr, "    scan a source file and report suspicious structure")
	fmt.Fprintln(os.Stderr, "  repl")
	fmt.Fprintln(os.Stderr, "    interactively scan input and inspect token trees")
	fmt.Fprintln(os.Stderr, "  lsp")
	fmt.Fprintln(os.Stderr, "    run a language server over stdin/stdout")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
