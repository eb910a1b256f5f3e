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
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/poiesic/curator"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/source"
	"github.com/poiesic/curator/workflow"
	"github.com/urfave/cli/v2"
)

type importOptions struct {
	autoApprove bool
	poolSize    int
	callTimeout time.Duration
	reader      workflow.SourceReader // nil fetches over HTTP
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	manifest := &Manifest{}
	if path := c.String("manifest"); path != "" {
		m, err := loadManifest(path)
		if err != nil {
			return err
		}
		manifest = m
	}
	manifest.URLs = append(manifest.URLs, c.StringSlice("url")...)
	manifest.Documents = append(manifest.Documents, c.StringSlice("doc")...)

	ws, err := buildWorkSet(ctx, manifest, source.NewFileExtractor(0))
	if err != nil {
		return fmt.Errorf("invalid sources: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithToken(c.String("ai-token")),
		ai.WithClassifierModel(c.String("classifier-model")),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	cur, err := curator.NewCurator(c.String("db"), curator.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer cur.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "AI host: %s\n", aiConfig.Host)
	fmt.Fprintf(os.Stderr, "Sources: %d\n", ws.Len())
	fmt.Fprintln(os.Stderr)

	summary, err := runImport(ctx, cur, ws, importOptions{
		autoApprove: c.Bool("yes"),
		poolSize:    c.Int("pool-size"),
		callTimeout: c.Duration("call-timeout"),
	}, os.Stdout, os.Stderr)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if summary[core.StatusError] > 0 {
		return fmt.Errorf("%d group(s) failed", summary[core.StatusError])
	}
	return nil
}

// runImport proposes groups for ws and, when autoApprove is set, takes every
// group through generation, review and commit.
func runImport(ctx context.Context, cur *curator.Curator, ws *source.WorkSet, opts importOptions, out, progress io.Writer) (map[core.Status]int, error) {
	monitor := newProgressMonitor(progress)
	engineOpts := []workflow.Option{
		workflow.WithPoolSize(opts.poolSize),
		workflow.WithCallTimeout(opts.callTimeout),
		workflow.WithMonitor(monitor),
	}
	if opts.reader != nil {
		engineOpts = append(engineOpts, workflow.WithSourceReader(opts.reader))
	}

	engine, err := cur.NewEngine(engineOpts...)
	if err != nil {
		return nil, err
	}
	defer engine.Release()

	batch, err := engine.Propose(ctx, ws)
	if err != nil {
		return nil, err
	}
	printGroups(out, batch.Groups())

	if !opts.autoApprove {
		fmt.Fprintln(out, "\nNothing saved. Run again with --yes to generate and commit these groups.")
		return batch.Summary(), nil
	}

	monitor.begin("Generating", batch.ApproveAll())
	if _, err := batch.GenerateDrafts(ctx); err != nil {
		return nil, err
	}

	reviewed := 0
	for _, g := range batch.Groups() {
		if g.Status != core.StatusReadyForReview {
			continue
		}
		view, err := batch.Review(g.ID)
		if err != nil {
			slog.Warn("cannot review draft", "group", g.ID, "err", err)
			continue
		}
		fmt.Fprintln(out)
		if err := view.Render(out); err != nil {
			return nil, err
		}
		// A draft that cannot be approved stays ready for review; the others go on.
		if err := batch.ApproveDraft(g.ID); err != nil {
			fmt.Fprintf(out, "Not saved: %v\n", err)
			continue
		}
		reviewed++
	}

	monitor.begin("Saving", reviewed)
	if _, err := batch.Commit(ctx); err != nil {
		return nil, err
	}

	fmt.Fprintln(out)
	printResults(out, batch.Groups())
	return batch.Summary(), nil
}

func printGroups(out io.Writer, groups []*core.Group) {
	for i, g := range groups {
		target := "new unit"
		if g.Kind == core.KindUpdate {
			target = fmt.Sprintf("update unit %d", g.ExistingUnitID)
		}
		fmt.Fprintf(out, "%d. %s (%s, %d sources)\n", i+1, g.Title, target, g.Sources.Len())
		if g.Rationale != "" {
			fmt.Fprintf(out, "   why: %s\n", g.Rationale)
		}
		for _, s := range g.Sources.Strings() {
			fmt.Fprintf(out, "   - %s\n", s)
		}
		if d := g.Discrepancy; d != nil {
			fmt.Fprintf(out, "   change: %s (%d%%) %s\n", d.ChangeLevel, d.ChangePercentage, d.Recommendation)
		}
		if co := g.Coherence; co != nil {
			fmt.Fprintf(out, "   coherence: %s (%d%%)\n", co.Level, co.Percentage)
			for _, conflict := range co.Conflicts {
				fmt.Fprintf(out, "     ! [%s] %s: %s\n", conflict.Severity, conflict.Type, conflict.Description)
			}
		}
		for _, q := range g.Questions {
			fmt.Fprintf(out, "   ? %s\n", q)
		}
	}
}

func printResults(out io.Writer, groups []*core.Group) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tSTATUS\tUNIT\tERROR")
	for _, g := range groups {
		unit := "-"
		if g.UnitID != 0 {
			unit = fmt.Sprint(g.UnitID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Title, g.Status, unit, g.Error)
	}
	w.Flush()
}

func unitsCommand(c *cli.Context) error {
	cur, err := curator.NewCurator(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer cur.Close()

	units, err := cur.UnitRepository().ListUnits(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSOURCES\tUPDATED")
	for _, u := range units {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", u.Id, u.Title, len(u.Sources), u.UpdatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func showCommand(c *cli.Context) error {
	cur, err := curator.NewCurator(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer cur.Close()

	unit, err := cur.UnitRepository().GetUnit(context.Background(), core.ID(c.Uint64("id")))
	if err != nil {
		return err
	}
	return printUnit(os.Stdout, unit)
}

func printUnit(out io.Writer, unit *core.Unit) error {
	_, err := fmt.Fprintf(out, "%s\n%s\n\n%s\n\nSources:\n%s\n",
		unit.Title,
		strings.Repeat("=", len(unit.Title)),
		strings.TrimRight(unit.Content, "\n"),
		strings.Join(unit.Sources, "\n"),
	)
	return err
}
