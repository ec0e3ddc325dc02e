package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/reflectmd/internal/foundation/errors"
	"git.home.luguber.info/inful/reflectmd/internal/linkcheck"
	"git.home.luguber.info/inful/reflectmd/internal/metrics"
	"git.home.luguber.info/inful/reflectmd/internal/render"
)

type outcomeRecorder struct {
	metrics.NoopRecorder
	outcomes []metrics.OutcomeLabel
	pages    int
}

func (o *outcomeRecorder) IncBuildOutcome(l metrics.OutcomeLabel) { o.outcomes = append(o.outcomes, l) }
func (o *outcomeRecorder) SetPagesWritten(n int)                  { o.pages = n }

func newGenerator(t *testing.T, rec metrics.Recorder) (*Generator, *bytes.Buffer) {
	t.Helper()
	theme, err := render.NewDefaultTheme()
	require.NoError(t, err)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(theme, rec, logger), &logs
}

func TestRunWritesSite(t *testing.T) {
	t.Setenv("REFLECTMD_TEST_PREFIX", "x-")
	rec := &outcomeRecorder{}
	g, logs := newGenerator(t, rec)
	out := t.TempDir()

	report, err := g.Run(context.Background(), Request{
		ModelPath:   filepath.Join("testdata", "model.yaml"),
		OptionsPath: filepath.Join("testdata", "options.yaml"),
		OutDir:      out,
		CheckLinks:  true,
		Navigation:  true,
	})
	require.NoError(t, err)
	require.Equal(t, 7, report.Pages)
	require.Empty(t, report.BrokenLinks)
	require.Equal(t, out, report.OutDir)
	_, err = uuid.Parse(report.BuildID)
	require.NoError(t, err)

	for _, f := range []string{
		"README.md", "modules.md",
		"core/README.md", "core/classes/Engine.md", "core/functions/boot.md",
		"util/README.md", "util/functions/helper.md",
		NavigationFile,
	} {
		require.FileExists(t, filepath.Join(out, filepath.FromSlash(f)))
	}

	engine, err := os.ReadFile(filepath.Join(out, "core", "classes", "Engine.md"))
	require.NoError(t, err)
	require.Contains(t, string(engine), `<a id="x-speed"></a>`)

	nav, err := os.ReadFile(filepath.Join(out, NavigationFile))
	require.NoError(t, err)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(nav, &items))
	require.NotEmpty(t, items)

	require.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeSuccess}, rec.outcomes)
	require.Equal(t, 7, rec.pages)
	require.Contains(t, logs.String(), "Option normalized")
	require.Contains(t, logs.String(), "build_id="+report.BuildID)
}

func writeModel(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const brokenModel = `
name: demo
readme: "[gone](missing.md)"
children:
  - {name: core, kind: Module, children: [{name: boot, kind: Function}]}
`

func TestRunReportsBrokenLinks(t *testing.T) {
	rec := &outcomeRecorder{}
	g, _ := newGenerator(t, rec)
	report, err := g.Run(context.Background(), Request{
		ModelPath:  writeModel(t, brokenModel),
		OutDir:     t.TempDir(),
		CheckLinks: true,
	})
	require.NoError(t, err)
	require.Equal(t, []linkcheck.BrokenLink{{Page: "README.md", Destination: "missing.md", Reason: linkcheck.ReasonMissingPage}}, report.BrokenLinks)
	require.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeWarning}, rec.outcomes)
}

func TestRunFailsOnBrokenLinksWhenAsked(t *testing.T) {
	rec := &outcomeRecorder{}
	g, _ := newGenerator(t, rec)
	out := t.TempDir()
	_, err := g.Run(context.Background(), Request{
		ModelPath:         writeModel(t, brokenModel),
		OutDir:            out,
		CheckLinks:        true,
		FailOnBrokenLinks: true,
	})
	require.Error(t, err)
	require.Equal(t, ferrors.CategoryLinks, ferrors.GetCategory(err))
	require.Equal(t, []metrics.OutcomeLabel{metrics.OutcomeFailed}, rec.outcomes)
	require.FileExists(t, filepath.Join(out, "README.md"))
}

func TestPlan(t *testing.T) {
	g, _ := newGenerator(t, nil)
	res, opts, err := g.Plan(Request{ModelPath: filepath.Join("testdata", "model.yaml"), OutDir: "site"})
	require.NoError(t, err)
	require.Equal(t, "site", opts.Out)
	require.Len(t, res.URLs, 7)
	require.Equal(t, "README.md", res.URLs[0].URL)
}

func TestLoadModelErrors(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.json"))
	require.Equal(t, ferrors.CategoryInput, ferrors.GetCategory(err))

	txt := filepath.Join(t.TempDir(), "model.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	_, err = LoadModel(txt)
	require.Equal(t, ferrors.CategoryInput, ferrors.GetCategory(err))

	bad := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: x\nkind: NotAKind\n"), 0o600))
	_, err = LoadModel(bad)
	require.Equal(t, ferrors.CategoryInput, ferrors.GetCategory(err))
}

func TestLoadModelJSON(t *testing.T) {
	project, err := LoadModel(filepath.Join("..", "reflection", "testdata", "project.json"))
	require.NoError(t, err)
	require.NotEmpty(t, project.Children)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yaml"), slog.Default())
	require.Equal(t, ferrors.CategoryConfig, ferrors.GetCategory(err))
}
