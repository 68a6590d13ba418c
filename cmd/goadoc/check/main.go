package check

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/cmd/goadoc/shared"
	"github.com/walteh/goadoc/pkg/diagnostic"
)

type Handler struct {
	opts   *shared.Options
	dir    string
	format string // vscode, text
	out    io.Writer
}

func NewCheckCommand(opts *shared.Options) *cobra.Command {
	me := &Handler{opts: opts}

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "report unresolved references in every AsciiDoc file of a project",
	}

	cmd.Flags().StringVar(&me.format, "format", "text", "the format of the diagnostics (vscode, text)")
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

// ErrUnresolved is returned when a check finds error level diagnostics.
var ErrUnresolved = errors.New("unresolved references")

func (me *Handler) Run(ctx context.Context) error {
	if me.format != "vscode" && me.format != "text" {
		return errors.Errorf("unknown format %q", me.format)
	}

	p, err := me.opts.Open(ctx, me.dir)
	if err != nil {
		return err
	}
	defer p.Close()

	all, sources, err := shared.Check(ctx, p)
	if err != nil {
		return err
	}

	var formatter diagnostic.Formatter
	switch me.format {
	case "vscode":
		formatter = diagnostic.NewVSCodeFormatter()
	case "text":
		formatter = diagnostic.NewTextFormatter(sources)
	default:
		return errors.Errorf("unknown format %q", me.format)
	}

	out, err := formatter.Format(all)
	if err != nil {
		return errors.Errorf("formatting diagnostics: %w", err)
	}
	if _, err := me.out.Write(out); err != nil {
		return err
	}

	if len(all.Errors) > 0 {
		return errors.Errorf("%d errors: %w", len(all.Errors), ErrUnresolved)
	}
	return nil
}
