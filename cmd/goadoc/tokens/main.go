package tokens

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/goadoc/cmd/goadoc/shared"
	"github.com/walteh/goadoc/pkg/lexer"
	"github.com/walteh/goadoc/pkg/semtok"
)

type Handler struct {
	opts     *shared.Options
	file     string
	semantic bool
	out      io.Writer
}

func NewTokensCommand(opts *shared.Options) *cobra.Command {
	me := &Handler{opts: opts}

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "print the token stream of an AsciiDoc file",
	}

	cmd.Flags().BoolVar(&me.semantic, "semantic", false, "print semantic tokens instead of lexer tokens")
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

	if !me.semantic {
		for _, tok := range lexer.Lex(string(content)) {
			fmt.Fprintf(me.out, "%d\t%s\t%q\n", tok.Offset, tok.Type, tok.Text)
		}
		return nil
	}

	toks, err := semtok.GetTokensForText(ctx, content)
	if err != nil {
		return err
	}
	for _, tok := range toks {
		line, col := tok.Range.GetLineAndColumn(string(content))
		fmt.Fprintf(me.out, "%d:%d\t%s\t%s\t%q\n", line+1, col+1, tok.Type, tok.Modifier, tok.Range.Text)
	}
	return nil
}
