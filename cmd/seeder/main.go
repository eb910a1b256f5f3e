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
	"context"
	"errors"
	"flag"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/curator"
	"github.com/poiesic/curator/source"
	"github.com/poiesic/curator/storage"
)

// seedUnit is one knowledge unit to create.
type seedUnit struct {
	Title   string
	Content string
	Source  string
}

var samples = []seedUnit{
	{
		Title:   "Installing the CLI",
		Content: "# Installing the CLI\n\nDownload the release archive for your platform.\nUnpack it somewhere on your PATH.\nRun `curator --help` to check the install.\n",
		Source:  "seed:install",
	},
	{
		Title:   "Configuring the AI host",
		Content: "# Configuring the AI host\n\nThe importer talks to any OpenAI-compatible API.\nPass `--ai-host` with the base URL; `/v1` is appended when missing.\nUse `--classifier-model` and `--generator-model` to pick models.\n",
		Source:  "seed:ai-host",
	},
	{
		Title:   "Import manifests",
		Content: "# Import manifests\n\nA manifest is a YAML file with `urls` and `documents` lists.\nDocument paths are relative to the manifest.\n",
		Source:  "seed:manifest",
	},
}

var (
	dbPath  = flag.String("db", "./curator_db", "path to the database directory")
	seedDir = flag.String("dir", "", "directory of markdown files to seed from")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// unitsFromDir returns an iterator over the markdown files below dir.
// The title is the first "# " heading, or the file name without extension.
func unitsFromDir(ctx context.Context, dir string) (iter.Seq2[seedUnit, error], error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New(dir + " is not a directory")
	}

	extractor := source.NewFileExtractor(0)
	return func(yield func(seedUnit, error) bool) {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(seedUnit{}, err) {
					return filepath.SkipAll
				}
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if d.IsDir() || (ext != ".md" && ext != ".markdown") {
				return nil
			}

			doc, err := extractor.ExtractFile(ctx, path)
			if err != nil {
				if !yield(seedUnit{}, err) {
					return filepath.SkipAll
				}
				return nil
			}

			title := source.MarkdownTitle(doc.Content)
			if title == "" {
				title = strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
			}
			if !yield(seedUnit{Title: title, Content: doc.Content, Source: path}, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}

// unitsFromSlice returns an iterator over a slice of seed units.
func unitsFromSlice(units []seedUnit) iter.Seq2[seedUnit, error] {
	return func(yield func(seedUnit, error) bool) {
		for _, u := range units {
			if !yield(u, nil) {
				return
			}
		}
	}
}

// seed creates every unit whose title is not in the store yet.
func seed(ctx context.Context, repo storage.UnitRepository, units iter.Seq2[seedUnit, error]) (created, skipped int, err error) {
	for u, readErr := range units {
		if readErr != nil {
			slog.Warn("skipping unreadable file", "err", readErr)
			skipped++
			continue
		}

		if _, findErr := repo.FindUnitByTitle(ctx, u.Title); findErr == nil {
			slog.Info("unit exists", "title", u.Title)
			skipped++
			continue
		} else if !errors.Is(findErr, storage.ErrNotFound) {
			return created, skipped, findErr
		}

		unit, createErr := repo.CreateUnit(ctx, u.Title, u.Content, []string{u.Source})
		if createErr != nil {
			return created, skipped, createErr
		}
		slog.Info("unit created", "id", unit.Id, "title", unit.Title)
		created++
	}
	return created, skipped, nil
}

func main() {
	flag.Parse()

	cur, err := curator.NewCurator(*dbPath)
	if err != nil {
		panic(err)
	}
	defer cur.Close()

	ctx := context.Background()

	// Determine source of seed data
	var units iter.Seq2[seedUnit, error]
	if *seedDir != "" {
		units, err = unitsFromDir(ctx, *seedDir)
		if err != nil {
			panic(err)
		}
	} else {
		units = unitsFromSlice(samples)
	}

	created, skipped, err := seed(ctx, cur.UnitRepository(), units)
	if err != nil {
		panic(err)
	}
	slog.Info("seeding finished", "created", created, "skipped", skipped)
}
