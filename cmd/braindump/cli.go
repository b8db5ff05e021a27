package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"braindump/internal/capture"
	"braindump/internal/config"
	"braindump/internal/errors"
	"braindump/internal/merge"
	"braindump/internal/ops"
	"braindump/internal/scene"
	"braindump/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "braindump",
		Usage:   "Todo brain-dump analyzer",
		Version: Version,
		Commands: []*cli.Command{
			analyzeCmd(env),
			previewCmd(env),
			mergeCmd(env),
			breakdownCmd(env),
			captureCmd(env),
			historyCmd(env),
			runsCmd(env),
			configCmd(env),
			uiCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// analyzeCmd creates the analyze command.
func analyzeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze text into tasks and next actions (reads from stdin or argument)",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scene", Aliases: []string{"s"}, Usage: "Capture scene: brain-dump|project-brainstorm|dev-todo|daily-reminders"},
			&cli.StringFlag{Name: "kb-file", Usage: "File whose content is appended as knowledge-base context"},
			&cli.BoolFlag{Name: "include-completed", Usage: "Include completed tasks in the duplicate-avoidance context"},
		},
		Action: func(c *cli.Context) error {
			text, err := readText(c)
			if err != nil {
				return outputError(err)
			}

			input := ops.AnalyzeInput{
				InputText:        text,
				SceneID:          scene.ID(c.String("scene")),
				IncludeCompleted: c.Bool("include-completed"),
			}
			if !c.IsSet("include-completed") {
				input.IncludeCompleted = env.Config.IncludeCompletedByDefault
			}
			if path := c.String("kb-file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.KBText = string(data)
			}

			output, err := ops.Analyze(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// previewCmd creates the preview command.
func previewCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Run the offline heuristic analysis without a provider or note writes",
		ArgsUsage: "[text]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scene", Aliases: []string{"s"}, Usage: "Capture scene"},
		},
		Action: func(c *cli.Context) error {
			text, err := readText(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Preview(c.Context, env, ops.PreviewInput{
				InputText: text,
				SceneID:   scene.ID(c.String("scene")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// mergeCmd creates the merge command with plan and apply subcommands.
func mergeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "merge",
		Usage: "Plan and apply task merges",
		Subcommands: []*cli.Command{
			{
				Name:      "plan",
				Usage:     "Plan how suggestions fold into the task list",
				ArgsUsage: "[user input]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "suggest", Usage: "Suggested task title (repeatable)"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.PlanMerge(c.Context, env, ops.PlanMergeInput{
						UserInput:   strings.Join(c.Args().Slice(), " "),
						Suggestions: c.StringSlice("suggest"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "apply",
				Usage: "Apply a merge plan (reads plan JSON from stdin)",
				Action: func(c *cli.Context) error {
					if !stdinHasData() {
						return outputError(errors.NewInvalidRequest("plan JSON must be piped via stdin"))
					}
					data, err := io.ReadAll(os.Stdin)
					if err != nil {
						return outputError(errors.NewInternal(err))
					}

					var plan struct {
						Plan    *merge.Plan    `json:"plan"`
						Actions []merge.Action `json:"actions"`
					}
					if err := json.Unmarshal(data, &plan); err != nil {
						return outputError(errors.NewInvalidRequest("invalid plan JSON: " + err.Error()))
					}
					actions := plan.Actions
					if plan.Plan != nil {
						actions = plan.Plan.Actions
					}

					output, err := ops.ApplyMerge(c.Context, env, ops.ApplyMergeInput{Actions: actions})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// breakdownCmd creates the breakdown command.
func breakdownCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "breakdown",
		Usage:     "Break a task into concrete subtasks",
		ArgsUsage: "<task text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prompt", Usage: "Template override ({{task}} is replaced with the task text)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Breakdown(c.Context, env, ops.BreakdownInput{
				TaskText:       strings.Join(c.Args().Slice(), " "),
				PromptOverride: c.String("prompt"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// captureCmd creates the capture command with its session subcommands.
func captureCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Manage voice capture sessions in the note",
		Subcommands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Start a new capture session",
				Action: func(c *cli.Context) error {
					output, err := ops.CaptureStartSession(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "append",
				Usage:     "Append transcript lines (arguments, or one per stdin line)",
				ArgsUsage: "[line ...]",
				Action: func(c *cli.Context) error {
					lines := c.Args().Slice()
					if len(lines) == 0 && stdinHasData() {
						data, err := io.ReadAll(os.Stdin)
						if err != nil {
							return outputError(errors.NewInternal(err))
						}
						lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
					}

					output, err := ops.CaptureAppend(c.Context, env, ops.CaptureAppendInput{Lines: lines})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "listen",
				Usage: "Stream transcript lines from stdin, batching note writes on an idle gap",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "idle", Value: capture.DefaultIdleFlush, Usage: "Idle gap before buffered lines are written to the note"},
				},
				Action: func(c *cli.Context) error {
					if _, err := ops.CaptureStartSession(c.Context, env); err != nil {
						return outputError(err)
					}

					rec := capture.NewRecorder(c.Duration("idle"), func(lines []string) {
						if _, err := ops.CaptureAppend(c.Context, env, ops.CaptureAppendInput{Lines: lines}); err != nil {
							fmt.Fprintf(os.Stderr, "capture: %v\n", err)
						}
					})
					defer rec.Close()

					budget := capture.NewRestartBudget()
					scanner := bufio.NewScanner(os.Stdin)
					for {
						for scanner.Scan() {
							line := strings.TrimSpace(scanner.Text())
							if line == "" {
								continue
							}
							rec.Add(line)
						}
						err := scanner.Err()
						if err == nil {
							break
						}
						if !budget.Allow() {
							rec.Flush()
							return outputError(errors.NewInternal(fmt.Errorf("capture paused after repeated input failures: %w", err)))
						}
						fmt.Fprintf(os.Stderr, "capture: input error, restarting: %v\n", err)
						scanner = bufio.NewScanner(os.Stdin)
					}
					rec.Flush()

					output, err := ops.CaptureLatest(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "latest",
				Usage: "Show the most recent capture session",
				Action: func(c *cli.Context) error {
					output, err := ops.CaptureLatest(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "summarize",
				Usage: "Summarize the latest session into the note's summary region",
				Action: func(c *cli.Context) error {
					output, err := ops.Summarize(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// historyCmd creates the history command with read and clear subcommands.
func historyCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect or clear the persisted analysis history",
		Subcommands: []*cli.Command{
			{
				Name:  "read",
				Usage: "Show the last persisted analysis",
				Action: func(c *cli.Context) error {
					output, err := ops.HistoryRead(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "clear",
				Usage: "Remove the history region from the note",
				Action: func(c *cli.Context) error {
					output, err := ops.HistoryClear(c.Context, env)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// runsCmd creates the runs command with list and get subcommands.
func runsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Browse the run archive",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List archived runs, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scene", Aliases: []string{"s"}, Usage: "Filter by capture scene"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum runs to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Runs to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.RunsList(c.Context, env, ops.RunsListInput{
						SceneID: scene.ID(c.String("scene")),
						Limit:   c.Int("limit"),
						Offset:  c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "get",
				Usage:     "Fetch one archived run with its full result",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.RunsGet(c.Context, env, ops.RunsGetInput{ID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// configCmd creates the config command.
func configCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the effective configuration with secrets stripped",
		Action: func(c *cli.Context) error {
			return outputJSON(config.StripSecrets(env.Config))
		},
	}
}

// uiCmd creates the ui command that serves the read-only preview.
func uiCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Serve the read-only web preview",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8612, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(env, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// readText returns the input text from the arguments or piped stdin.
func readText(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("text must be given as an argument or piped via stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return strings.TrimSpace(string(data)), nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if e, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", e.Code, e.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
