// Copyright 2025 RodeoAI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/rodeoai/chute"
	"github.com/rodeoai/chute/core"
	"github.com/rodeoai/chute/pipeline"
	"github.com/rodeoai/chute/sink/lovable"
)

var supportedExtensions = map[string]bool{
	".csv": true, ".xlsx": true, ".xls": true, ".txt": true,
	".pdf": true, ".jpg": true, ".jpeg": true, ".png": true,
}

func main() {
	app := &cli.App{
		Name:  "chute",
		Usage: "Ingestion gate for rodeo analytics data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Run files through the ingestion gate",
				ArgsUsage: "FILE_OR_DIR [FILE_OR_DIR...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "sink-url",
						Usage: "Base URL of the Lovable ingest functions",
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "API key for the sink",
						EnvVars: []string{"GPU_API_KEY"},
					},
					&cli.BoolFlag{
						Name:  "skip-dedup",
						Usage: "Bypass both duplicate gates (forced re-upload)",
					},
					&cli.BoolFlag{
						Name:  "skip-triage",
						Usage: "Force extraction regardless of relevance score",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Decide without pushing records to the sink",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent ingestion workers",
						Value: runtime.NumCPU() / 2,
					},
				},
			},
			{
				Name:  "review",
				Usage: "Inspect and resolve the review queue",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List review queue entries in insertion order",
						Action: reviewListCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
							},
							&cli.BoolFlag{
								Name:  "all",
								Usage: "Include resolved entries",
							},
						},
					},
					{
						Name:      "resolve",
						Usage:     "Resolve the oldest pending entry for a file fingerprint",
						ArgsUsage: "FINGERPRINT",
						Action:    reviewResolveCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "db",
								Aliases:  []string{"d"},
								Usage:    "Path to BadgerDB database directory",
								Required: true,
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file or directory is required")
	}

	paths, err := collectFiles(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no supported files found")
	}

	gateOpts := []chute.GateOption{
		chute.WithPipelineOptions(pipeline.WithPoolSize(c.Int("workers"))),
	}
	if !c.Bool("dry-run") && c.String("sink-url") != "" {
		gateOpts = append(gateOpts,
			chute.WithSink(lovable.NewClient(c.String("sink-url"), c.String("api-key"))))
	}

	gate, err := chute.NewGate(c.String("db"), gateOpts...)
	if err != nil {
		return fmt.Errorf("failed to open gate: %w", err)
	}
	defer gate.Close()

	items := make([]core.IngestItem, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		items = append(items, core.IngestItem{
			RawBytes: raw,
			Filename: filepath.Base(path),
		})
	}

	opts := pipeline.Options{
		SkipDeduplication: c.Bool("skip-dedup"),
		SkipTriage:        c.Bool("skip-triage"),
	}

	results := gate.IngestBatch(c.Context, items, opts)

	var failures int
	for _, r := range results {
		if r.Err != nil {
			failures++
			fmt.Printf("%-40s error: %v\n", r.Filename, r.Err)
			continue
		}
		printDecision(r.Filename, r.Decision)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(results))
	}
	return nil
}

func printDecision(filename string, d *core.PipelineDecision) {
	fmt.Printf("%-40s %s (%s)\n", filename, d.Action, d.ReasonCode)

	if d.Triage != nil {
		fmt.Printf("    triage:  %s (score %d, confidence %d)\n",
			d.Triage.Label, d.Triage.Score, d.Triage.Confidence)
	}
	if d.Quality != nil {
		fmt.Printf("    quality: %s (score %d)\n", d.Quality.Verdict, d.Quality.Score)
		for _, issue := range d.Quality.Issues {
			fmt.Printf("      issue: %s\n", issue)
		}
		for _, warning := range d.Quality.Warnings {
			fmt.Printf("      warning: %s\n", warning)
		}
	}
	if d.Queued() {
		fmt.Printf("    queued for review: %s (fingerprint %s)\n",
			d.ReviewEntryID, d.FileFingerprint.Hex())
	}
	if len(d.PushResults) > 0 {
		var pushed int
		for _, status := range d.PushResults {
			if status.Status == "success" {
				pushed++
			}
		}
		fmt.Printf("    pushed: %d/%d records\n", pushed, len(d.PushResults))
	}
	if d.SinkError != "" {
		fmt.Printf("    sink error: %s\n", d.SinkError)
	}
}

func reviewListCommand(c *cli.Context) error {
	gate, err := chute.NewGate(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open gate: %w", err)
	}
	defer gate.Close()

	var entries []*core.ReviewQueueEntry
	if c.Bool("all") {
		entries, err = gate.AllReviews(c.Context)
	} else {
		entries, err = gate.PendingReviews(c.Context)
	}
	if err != nil {
		return fmt.Errorf("failed to list review queue: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("review queue is empty")
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%s  %-10s %-20s %s\n",
			entry.AddedAt.Format("2006-01-02 15:04:05"),
			entry.Status,
			entry.Reason,
			entry.Filename)
		fmt.Printf("    fingerprint: %s\n", entry.FileFingerprint.Hex())
	}
	return nil
}

func reviewResolveCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one fingerprint is required")
	}

	fp, err := core.ParseFingerprint(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid fingerprint: %w", err)
	}

	gate, err := chute.NewGate(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open gate: %w", err)
	}
	defer gate.Close()

	if err := gate.Resolve(c.Context, fp); err != nil {
		return fmt.Errorf("failed to resolve entry: %w", err)
	}

	fmt.Printf("resolved %s\n", fp.Hex())
	return nil
}

// collectFiles expands directories one level deep and keeps only supported
// file types.
func collectFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
