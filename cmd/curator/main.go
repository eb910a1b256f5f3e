// Copyright 2025 Poiesic Systems
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
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "curator",
		Usage: "AI-assisted bulk import into a knowledge base",
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
				Name:   "import",
				Usage:  "Group sources into knowledge units, generate drafts and commit them",
				Action: importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:    "manifest",
						Aliases: []string{"m"},
						Usage:   "YAML file listing urls and documents to import",
					},
					&cli.StringSliceFlag{
						Name:  "url",
						Usage: "URL to import (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "doc",
						Usage: "Document file to import (repeatable)",
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible API host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "ai-token",
						Usage: "API token for the AI host",
					},
					&cli.StringFlag{
						Name:  "classifier-model",
						Usage: "Model used for grouping and conflict checks",
						Value: "qwen2.5:7b",
					},
					&cli.StringFlag{
						Name:  "generator-model",
						Usage: "Model used for draft generation",
						Value: "qwen2.5:14b",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of groups processed concurrently",
						Value: 4,
					},
					&cli.DurationFlag{
						Name:  "call-timeout",
						Usage: "Timeout for each per-group AI call (0 disables)",
						Value: 5 * time.Minute,
					},
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Approve every group and draft without stopping for review",
					},
				},
			},
			{
				Name:   "units",
				Usage:  "List knowledge units",
				Action: unitsCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
			{
				Name:   "show",
				Usage:  "Print one knowledge unit",
				Action: showCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Unit id",
						Required: true,
					},
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
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
