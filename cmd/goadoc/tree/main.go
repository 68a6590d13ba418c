package tree

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/cmd/goadoc/shared"
	"github.com/walteh/goadoc/pkg/ast"
	"github.com/walteh/goadoc/pkg/parser"
)

type Handler struct {
	opts *shared.Options
	file string
	out  io.Writer
}

func NewTreeCommand(opts *shared.Options) *cobra.Command {
	me := &Handler{opts: opts}

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "print the element tree of an AsciiDoc file",
	}

	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	if me.opts.Fs == nil {
		me.opts.Fs = afero.NewOsFs()
	}
	content, err := afero.ReadFile(me.opts.Fs, me.file)
	if err != nil {
		return errors.Errorf("reading %s: %w", me.file, err)
	}
	doc, err := parser.ParseDocument(ctx, me.file, content)
	if err != nil {
		return err
	}
	return ast.Dump(me.out, doc.Root)
}
