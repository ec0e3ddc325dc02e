package navigation

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"git.home.luguber.info/inful/reflectmd/internal/options"
	"git.home.luguber.info/inful/reflectmd/internal/reflection"
	"git.home.luguber.info/inful/reflectmd/internal/urlbuilder"
	"github.com/stretchr/testify/require"
)

const fixture = `
name: p
readme: "# p"
documents:
  - {name: Guide, kind: Document}
children:
  - name: core
    kind: Module
    children:
      - name: Engine
        kind: Class
        children: [{name: start, kind: Method}]
      - {name: boot, kind: Function}
  - name: util
    kind: Module
`

func buildNav(t *testing.T) []*Item {
	t.Helper()
	project, err := reflection.LoadYAML(strings.NewReader(fixture))
	require.NoError(t, err)
	res := urlbuilder.New(options.Resolve(&options.Options{}), nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil))).Build(project)
	return Build(res)
}

func TestBuildNestsPagesUnderOwners(t *testing.T) {
	nav := buildNav(t)
	require.Len(t, nav, 2)

	guide := nav[0]
	require.False(t, guide.IsGroup)
	require.Equal(t, "Guide", guide.Title)
	require.Equal(t, "Document", guide.Kind)
	require.Equal(t, "documents/Guide.md", guide.URL)

	modules := nav[1]
	require.True(t, modules.IsGroup)
	require.Equal(t, "Modules", modules.Title)
	require.Len(t, modules.Children, 2)

	core := modules.Children[0]
	require.Equal(t, "core", core.Title)
	require.Equal(t, "core/README.md", core.URL)
	require.Equal(t, "Module", core.Kind)
	require.Len(t, core.Children, 2)
	require.Equal(t, "Classes", core.Children[0].Title)
	require.Equal(t, "core/classes/Engine.md", core.Children[0].Children[0].URL)
	require.Equal(t, "Functions", core.Children[1].Title)
	require.Empty(t, core.Children[0].Children[0].Children, "inline members have no navigation entry")

	require.Empty(t, modules.Children[1].Children)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, buildNav(t)))

	var decoded []*Item
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "Modules", decoded[1].Title)
	require.Equal(t, "core/README.md", decoded[1].Children[0].URL)
}
