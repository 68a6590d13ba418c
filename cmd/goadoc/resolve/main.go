package resolve

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/cmd/goadoc/shared"
	"github.com/walteh/goadoc/pkg/resolve"
)

type Handler struct {
	opts   *shared.Options
	file   string
	offset int
	out    io.Writer
}

func NewResolveCommand(opts *shared.Options) *cobra.Command {
	me := &Handler{opts: opts}

	cmd := &cobra.Command{
		Use:   "resolve [file] [offset]",
		Short: "resolve the reference at a byte offset of a file",
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

type output struct {
	Kind    string   `json:"kind"`
	Target  string   `json:"target"`
	Status  string   `json:"status"`
	Targets []target `json:"targets"`
}

type target struct {
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
	Offset *int   `json:"offset,omitempty"`
}

func (me *Handler) Run(ctx context.Context) error {
	p, doc, err := me.opts.Document(ctx, me.file)
	if err != nil {
		return err
	}
	defer p.Close()

	ref, targets, err := resolve.New(p).ResolveAt(ctx, doc, me.offset)
	if err != nil {
		return err
	}
	if ref == nil {
		return errors.Errorf("no reference at offset %d of %s", me.offset, me.file)
	}

	res := output{
		Kind:    ref.Kind.String(),
		Target:  ref.Target,
		Status:  resolve.Classify(targets).String(),
		Targets: []target{},
	}
	for _, t := range targets {
		out := target{Kind: t.Kind.String(), Path: t.Path, Name: t.Name, Value: t.Value}
		if t.Element != nil {
			offset := t.Element.Offset
			out.Offset = &offset
		}
		res.Targets = append(res.Targets, out)
	}

	encoder := json.NewEncoder(me.out)
	if err := encoder.Encode(res); err != nil {
		return errors.Errorf("failed to encode targets: %w", err)
	}
	return nil
}
