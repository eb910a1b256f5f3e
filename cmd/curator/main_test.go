package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/curator"
	"github.com/poiesic/curator/ai"
	"github.com/poiesic/curator/ai/mock"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/source"
	"github.com/poiesic/curator/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	require.FailNow(t, "missing command "+name)
	return nil
}

func findStringFlag(cmd *cli.Command, name string) *cli.StringFlag {
	for _, flag := range cmd.Flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestImportCommandFlags(t *testing.T) {
	app := newApp()
	cmd := findCommand(t, app, "import")

	t.Run("db is required", func(t *testing.T) {
		err := app.Run([]string{"curator", "import", "--url", "https://example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("ai-host has default value", func(t *testing.T) {
		hostFlag := findStringFlag(cmd, "ai-host")
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
		assert.Empty(t, hostFlag.EnvVars)
	})

	t.Run("models have defaults", func(t *testing.T) {
		assert.Equal(t, "qwen2.5:7b", findStringFlag(cmd, "classifier-model").Value)
		assert.Equal(t, "qwen2.5:14b", findStringFlag(cmd, "generator-model").Value)
	})

	t.Run("call-timeout has default value", func(t *testing.T) {
		var timeoutFlag *cli.DurationFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.DurationFlag); ok && f.Name == "call-timeout" {
				timeoutFlag = f
				break
			}
		}
		require.NotNil(t, timeoutFlag)
		assert.Equal(t, 5*time.Minute, timeoutFlag.Value)
	})

	t.Run("show requires id", func(t *testing.T) {
		err := app.Run([]string{"curator", "show", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id")
	})
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	app := newApp()
	app.Commands = []*cli.Command{{Name: "noop", Action: func(*cli.Context) error { return nil }}}

	require.NoError(t, app.Run([]string{"curator", "--log-level", "DEBUG", "noop"}))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	err := app.Run([]string{"curator", "--log-level", "loud", "noop"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes", "install.md"), []byte("# Install\n\nRun it."), 0644))

	manifestPath := filepath.Join(dir, "import.yaml")
	manifest := "urls:\n  - https://Example.com/guide#top\n  - https://example.com/guide\ndocuments:\n  - notes/install.md\n"
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifest), 0644))

	m, err := loadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes", "install.md")}, m.Documents)

	ws, err := buildWorkSet(context.Background(), m, source.NewFileExtractor(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/guide"}, ws.URLs)
	require.Len(t, ws.Documents, 1)
	assert.Equal(t, "install.md", ws.Documents[0].Filename)
}

func TestBuildWorkSet_ReportsAllErrors(t *testing.T) {
	m := &Manifest{
		URLs:      []string{"ftp://example.com/file", "https://ok.example.com"},
		Documents: []string{filepath.Join(t.TempDir(), "missing.md")},
	}

	_, err := buildWorkSet(context.Background(), m, source.NewFileExtractor(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrInvalidURL)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadManifest_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("urls: [unclosed"), 0644))

	_, err := loadManifest(path)
	assert.Error(t, err)

	_, err = loadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

type cannedReader struct{}

func (cannedReader) ReadURL(_ context.Context, u string) (string, error) {
	return "# Page\n\nFrom " + u, nil
}

func newTestCurator(t *testing.T) *curator.Curator {
	t.Helper()
	cur, err := curator.NewCurator("", curator.WithInMemory(), curator.WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { cur.Close() })
	return cur
}

func TestRunImport(t *testing.T) {
	ctx := context.Background()
	ws := source.NewWorkSet()
	require.NoError(t, ws.AddURL("https://example.com/a"))
	require.NoError(t, ws.AddURL("https://example.com/b"))

	t.Run("without approval nothing is saved", func(t *testing.T) {
		cur := newTestCurator(t)
		var out, progress bytes.Buffer

		summary, err := runImport(ctx, cur, ws, importOptions{poolSize: 2, reader: cannedReader{}}, &out, &progress)
		require.NoError(t, err)
		assert.Equal(t, map[core.Status]int{core.StatusPending: 1}, summary)
		assert.Contains(t, out.String(), "1. Imported material (new unit, 2 sources)")
		assert.Contains(t, out.String(), "coherence: high (100%)")
		assert.Contains(t, out.String(), "Nothing saved")

		units, err := cur.UnitRepository().ListUnits(ctx)
		require.NoError(t, err)
		assert.Empty(t, units)
	})

	t.Run("auto approve commits", func(t *testing.T) {
		cur := newTestCurator(t)
		var out, progress bytes.Buffer

		summary, err := runImport(ctx, cur, ws, importOptions{autoApprove: true, poolSize: 2, reader: cannedReader{}}, &out, &progress)
		require.NoError(t, err)
		assert.Equal(t, map[core.Status]int{core.StatusDone: 1}, summary)
		assert.Contains(t, out.String(), "Imported material [create, ready_for_review]")
		assert.Contains(t, progress.String(), "Generating: 1/1 (100.0%)")
		assert.Contains(t, progress.String(), "commit: 1 succeeded, 0 failed")

		units, err := cur.UnitRepository().ListUnits(ctx)
		require.NoError(t, err)
		require.Len(t, units, 1)

		var shown bytes.Buffer
		require.NoError(t, printUnit(&shown, units[0]))
		assert.Contains(t, shown.String(), "Imported material\n=================\n")
		assert.Contains(t, shown.String(), "https://example.com/b")
	})
}

func TestRunImport_UntitledGroupsAreSaved(t *testing.T) {
	ctx := context.Background()
	provider := mock.NewMockProvider()
	provider.GetMockClassifier().ClassifyFunc = func(_ context.Context, req ai.ClassifyRequest) ([]ai.ProposedGroup, error) {
		return []ai.ProposedGroup{
			{Kind: core.KindCreate, URLs: req.URLs[:1]},
			{Kind: core.KindCreate, Title: "Second", URLs: req.URLs[1:]},
		}, nil
	}
	provider.GetMockGenerator().GenerateFunc = func(_ context.Context, req ai.GenerateRequest) (*ai.GeneratedDraft, error) {
		return &ai.GeneratedDraft{Content: "body of " + req.Sources[0].Label}, nil
	}
	cur, err := curator.NewCurator("", curator.WithInMemory(), curator.WithAIProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { cur.Close() })

	ws := source.NewWorkSet()
	require.NoError(t, ws.AddURL("https://example.com/a"))
	require.NoError(t, ws.AddURL("https://example.com/b"))

	var out, progress bytes.Buffer
	summary, err := runImport(ctx, cur, ws, importOptions{autoApprove: true, poolSize: 2, reader: cannedReader{}}, &out, &progress)
	require.NoError(t, err)
	assert.Equal(t, map[core.Status]int{core.StatusDone: 2}, summary)
	assert.NotContains(t, out.String(), "Not saved")

	unit, err := cur.UnitRepository().FindUnitByTitle(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "body of https://example.com/a", unit.Content)
	_, err = cur.UnitRepository().FindUnitByTitle(ctx, "Second")
	assert.NoError(t, err)
}

func TestProgressMonitor(t *testing.T) {
	var buf bytes.Buffer
	monitor := newProgressMonitor(&buf)

	monitor.Transition("ignored", core.StatusGenerating, core.StatusReadyForReview)
	assert.Empty(t, buf.String(), "nothing is printed before begin")

	monitor.begin("Generating", 2)
	monitor.Transition("g1", core.StatusApproved, core.StatusGenerating)
	monitor.Transition("g1", core.StatusGenerating, core.StatusReadyForReview)
	assert.Contains(t, buf.String(), "Generating: 1/2 (50.0%)")

	monitor.Transition("g2", core.StatusGenerating, core.StatusError)
	monitor.StageFinished(&workflow.StageReport{Stage: core.StageGeneration, Succeeded: 1, Failed: 1})
	assert.Contains(t, buf.String(), "Generating: 2/2 (100.0%)")
	assert.Contains(t, buf.String(), "\ngeneration: 1 succeeded, 1 failed\n")
}
