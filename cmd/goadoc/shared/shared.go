// Package shared holds the flags and helpers every goadoc command uses.
package shared

import (
	"context"
	"io"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/config"
	"github.com/walteh/goadoc/pkg/debug"
	"github.com/walteh/goadoc/pkg/diagnostic"
	"github.com/walteh/goadoc/pkg/project"
	"github.com/walteh/goadoc/pkg/resolve"
)

// Options are the persistent flags of the root command.
type Options struct {
	ConfigPath string
	Debug      bool
	Root       string

	// Fs defaults to the OS file system
	Fs afero.Fs
}

func (o *Options) Register(flags *pflag.FlagSet) {
	flags.StringVar(&o.ConfigPath, "config", "", "path to a .goadoc.yaml or .goadoc.hcl file")
	flags.BoolVar(&o.Debug, "debug", false, "enable debug logging")
	flags.StringVar(&o.Root, "root", ".", "the project root")
}

// Logger attaches the command line logger to ctx.
func (o *Options) Logger(ctx context.Context, w io.Writer) context.Context {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	return debug.WithLogger(ctx, w, level, !color.NoColor)
}

func (o *Options) fs() afero.Fs {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	return o.Fs
}

// Open opens the project at root, or at --root when root is empty.
func (o *Options) Open(ctx context.Context, root string) (*project.Project, error) {
	if root == "" {
		root = o.Root
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving project root %s: %w", root, err)
	}

	var cfg *config.Config
	if o.ConfigPath != "" {
		cfg, err = config.Load(o.fs(), o.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	return project.Open(ctx, o.fs(), abs, cfg)
}

// Document opens the project and parses file in it.
func (o *Options) Document(ctx context.Context, file string) (*project.Project, *ast.Document, error) {
	p, err := o.Open(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, nil, errors.Errorf("resolving %s: %w", file, err)
	}
	doc, err := p.Document(ctx, abs)
	if err != nil {
		return nil, nil, err
	}
	return p, doc, nil
}

// ParseOffset reads a byte offset argument.
func ParseOffset(arg string) (int, error) {
	offset, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Errorf("invalid offset: %w", err)
	}
	if offset < 0 {
		return 0, errors.Errorf("invalid offset %d", offset)
	}
	return offset, nil
}

// Check generates the diagnostics of every source file of p. The returned
// map holds the text of each checked file.
func Check(ctx context.Context, p *project.Project) (*diagnostic.Diagnostics, map[string]string, error) {
	files, err := p.Files(ctx)
	if err != nil {
		return nil, nil, err
	}
	gen := diagnostic.NewDefaultGenerator(resolve.New(p))
	sources := map[string]string{}
	all := &diagnostic.Diagnostics{}
	for _, file := range files {
		doc, err := p.Document(ctx, file)
		if err != nil {
			return nil, nil, err
		}
		diags, err := gen.Generate(ctx, doc)
		if err != nil {
			return nil, nil, err
		}
		sources[file] = doc.Text
		all.Merge(diags)
	}
	zerolog.Ctx(ctx).Info().
		Int("files", len(files)).
		Int("errors", len(all.Errors)).
		Int("warnings", len(all.Warnings)).
		Msg("checked project")
	return all, sources, nil
}
