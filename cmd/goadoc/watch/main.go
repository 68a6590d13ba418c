package watch

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/goadoc/cmd/goadoc/shared"
	"github.com/walteh/goadoc/pkg/diagnostic"
	"github.com/walteh/goadoc/pkg/project"
)

type Handler struct {
	opts *shared.Options
	dir  string
	out  io.Writer
}

func NewWatchCommand(opts *shared.Options) *cobra.Command {
	me := &Handler{opts: opts}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "re-check a project whenever one of its files changes",
	}

	cmd.Args = cobra.MaximumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			me.dir = args[0]
		}
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

// Run checks the project once and then after every change, until ctx ends.
func (me *Handler) Run(ctx context.Context) error {
	p, err := me.opts.Open(ctx, me.dir)
	if err != nil {
		return err
	}
	defer p.Close()

	changes, err := p.Watch(ctx)
	if err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx)
	if err := me.check(ctx, p); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info().Str("path", path).Msg("change")
			if err := me.check(ctx, p); err != nil {
				logger.Error().Err(err).Msg("check failed")
			}
		}
	}
}

func (me *Handler) check(ctx context.Context, p *project.Project) error {
	all, sources, err := shared.Check(ctx, p)
	if err != nil {
		return err
	}
	out, err := diagnostic.NewTextFormatter(sources).Format(all)
	if err != nil {
		return err
	}
	_, err = me.out.Write(out)
	return err
}
