package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/goadoc/cmd/goadoc/shared"
)

func TestResolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/a.adoc", []byte(":x: 1\n\n{x}\n"), 0o644))
	opts := &shared.Options{Fs: fs, Root: "/p"}

	t.Run("attribute", func(t *testing.T) {
		var buf bytes.Buffer
		me := &Handler{opts: opts, file: "/p/a.adoc", offset: 8, out: &buf}
		require.NoError(t, me.Run(context.Background()))

		var got output
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		zero := 0
		assert.Equal(t, output{
			Kind:   "attribute",
			Target: "x",
			Status: "resolved",
			Targets: []target{
				{Kind: "declaration", Path: "/p/a.adoc", Name: "x", Value: "1", Offset: &zero},
			},
		}, got)
	})

	t.Run("no reference", func(t *testing.T) {
		var buf bytes.Buffer
		me := &Handler{opts: opts, file: "/p/a.adoc", offset: 0, out: &buf}
		require.Error(t, me.Run(context.Background()))
	})
}

func TestParseOffset(t *testing.T) {
	n, err := shared.ParseOffset("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = shared.ParseOffset("x")
	require.Error(t, err)
	_, err = shared.ParseOffset("-1")
	require.Error(t, err)
}
