package check

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

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		format   string
		wantErr  error
		anyErr   bool
		contains string
		empty    bool
	}{
		{
			name:     "missing file",
			files:    map[string]string{"/p/a.adoc": "See xref:missing.adoc[].\n"},
			format:   "text",
			wantErr:  ErrUnresolved,
			contains: `file "missing.adoc" does not resolve [file-not-found]`,
		},
		{
			name:   "clean project",
			files:  map[string]string{"/p/a.adoc": "= T\n\nxref:b.adoc[]\n", "/p/b.adoc": "= B\n"},
			format: "text",
			empty:  true,
		},
		{
			name:     "warnings only",
			files:    map[string]string{"/p/a.adoc": "Hello {who}\n"},
			format:   "text",
			contains: `attribute "who" is not defined`,
		},
		{
			name:   "unknown format",
			files:  map[string]string{"/p/a.adoc": "x\n"},
			format: "yaml",
			anyErr: true,
			empty:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for name, content := range tt.files {
				require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
			}
			var buf bytes.Buffer
			me := &Handler{opts: &shared.Options{Fs: fs, Root: "/p"}, dir: "/p", format: tt.format, out: &buf}

			err := me.Run(context.Background())
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
			if tt.contains != "" {
				assert.Contains(t, buf.String(), tt.contains)
			}
			if tt.empty {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCheckVSCode(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/a.adoc", []byte("Hello {who}\n"), 0o644))

	var buf bytes.Buffer
	me := &Handler{opts: &shared.Options{Fs: fs}, dir: "/p", format: "vscode", out: &buf}
	require.NoError(t, me.Run(context.Background()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "attribute-not-found", decoded[0]["code"])
}
