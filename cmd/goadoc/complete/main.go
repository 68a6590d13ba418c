package complete

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/cmd/goadoc/shared"
	"github.com/walteh/goadoc/pkg/completion"
	"github.com/walteh/goadoc/pkg/completion/providers"
	"github.com/walteh/goadoc/pkg/resolve"
)

type Handler struct {
	opts   *shared.Options
	file   string
	offset int
	out    io.Writer
}

func NewCompleteCommand(opts *shared.Options) *cobra.Command {
	me := &Handler{opts: opts}

	cmd := &cobra.Command{
		Use:   "complete [file] [offset]",
		Short: "get completions for a byte offset of a file",
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

	items, err := completion.GetCompletionsAt(ctx, resolve.New(p), doc, me.offset)
	if err != nil {
		return errors.Errorf("failed to get completions: %w", err)
	}
	if items == nil {
		items = []providers.CompletionItem{}
	}

	encoder := json.NewEncoder(me.out)
	if err := encoder.Encode(items); err != nil {
		return errors.Errorf("failed to encode completions: %w", err)
	}
	return nil
}
