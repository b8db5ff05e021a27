package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"braindump/internal/config"
	"braindump/internal/db"
	"braindump/internal/mcp"
	"braindump/internal/ops"
	"braindump/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"analyze": true, "preview": true, "merge": true, "breakdown": true,
	"capture": true, "history": true, "runs": true, "config": true,
	"ui": true, "help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _               _           _
  | |__  _ __ __ _(_)_ __   __| |_   _ _ __ ___  _ __
  | '_ \| '__/ _' | | '_ \ / _' | | | | '_ ' _ \| '_ \
  | |_) | | | (_| | | | | | (_| | |_| | | | | | | |_) |
  |_.__/|_|  \__,_|_|_| |_|\__,_|\__,_|_| |_| |_| .__/
                                                |_|
  Todo brain-dump analyzer

  Usage: braindump <command> [options]
         braindump --help

  MCP server mode requires piped input.`)
}

// notePath resolves the todo note location: flag and env override, otherwise
// a todo.md next to the rest of the state.
func notePath(baseDir string) string {
	if p := os.Getenv("BRAINDUMP_NOTE"); p != "" {
		return p
	}
	return filepath.Join(baseDir, "todo.md")
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any state init
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".braindump")

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	db.ConfigurePool(database, cfg)

	doc, err := store.Open(notePath(baseDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open note: %v\n", err)
		os.Exit(1)
	}

	env := &ops.Env{
		Doc:    doc,
		DB:     database,
		Config: cfg,
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'braindump --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Printf("warning: unknown disabled tools in config: %v", unknown)
	}
	if err := mcp.Run(env, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
