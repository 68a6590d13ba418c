package hover

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/walteh/goadoc/cmd/goadoc/shared"
	"github.com/walteh/goadoc/pkg/hover"
	"github.com/walteh/goadoc/pkg/resolve"
)

type Handler struct {
	opts   *shared.Options
	file   string
	offset int
	out    io.Writer
}

func NewHoverCommand(opts *shared.Options) *cobra.Command {
	me := &Handler{opts: opts}

	cmd := &cobra.Command{
		Use:   "hover [file] [offset]",
		Short: "describe the reference at a byte offset of a file",
	}

	cmd.Args = cobra.ExactArgs(2)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		var err error
		me.offset, err = shared.ParseOffset(args[1])
		if err != nil {
			return err
		}
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	p, doc, err := me.opts.Document(ctx, me.file)
	if err != nil {
		return err
	}
	defer p.Close()

	info, err := hover.Hover(ctx, resolve.New(p), doc, me.offset)
	if err != nil {
		return err
	}
	if info == nil {
		return nil
	}
	_, err = fmt.Fprintln(me.out, info.Markdown())
	return err
}
