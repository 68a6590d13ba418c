package debug_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/walteh/goadoc/pkg/debug"
)

func TestGetPackageAndFuncFromFuncName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPkg  string
		wantFunc string
	}{
		{
			name:     "method",
			input:    "github.com/walteh/goadoc/pkg/resolve.(*Resolver).Resolve",
			wantPkg:  "github.com/walteh/goadoc/pkg/resolve",
			wantFunc: "(*Resolver).Resolve",
		},
		{
			name:     "main",
			input:    "main.main",
			wantPkg:  "main",
			wantFunc: "main",
		},
		{
			name:     "closure",
			input:    "github.com/walteh/goadoc/pkg/project.(*Project).Watch.func1",
			wantPkg:  "github.com/walteh/goadoc/pkg/project",
			wantFunc: "(*Project).Watch.func1",
		},
		{
			name:    "no dot",
			input:   "weird",
			wantPkg: "weird",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, fn := debug.GetPackageAndFuncFromFuncName(tt.input)
			assert.Equal(t, tt.wantPkg, pkg)
			assert.Equal(t, tt.wantFunc, fn)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "pkg:c.go:12", debug.FormatCaller("pkg", "/a/b/c.go", 12, false))
	assert.Equal(t, "c.go", debug.FileNameOfPath("c.go"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := debug.WithLogger(context.Background(), &buf, zerolog.InfoLevel, false)

	zerolog.Ctx(ctx).Debug().Msg("hidden")
	zerolog.Ctx(ctx).Info().Str("path", "/p/a.adoc").Msg("hello")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "path=/p/a.adoc")
	assert.Contains(t, out, ".go:")
}
