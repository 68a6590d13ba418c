package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	checkcmd "github.com/walteh/goadoc/cmd/goadoc/check"
	completecmd "github.com/walteh/goadoc/cmd/goadoc/complete"
	hovercmd "github.com/walteh/goadoc/cmd/goadoc/hover"
	resolvecmd "github.com/walteh/goadoc/cmd/goadoc/resolve"
	"github.com/walteh/goadoc/cmd/goadoc/shared"
	tokenscmd "github.com/walteh/goadoc/cmd/goadoc/tokens"
	treecmd "github.com/walteh/goadoc/cmd/goadoc/tree"
	watchcmd "github.com/walteh/goadoc/cmd/goadoc/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &shared.Options{}

	cmd := &cobra.Command{
		Use:   "goadoc",
		Short: "lex, parse and cross check AsciiDoc projects",
	}

	opts.Register(cmd.PersistentFlags())
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(opts.Logger(cmd.Context(), os.Stderr))
	}

	cmd.AddCommand(tokenscmd.NewTokensCommand(opts))
	cmd.AddCommand(treecmd.NewTreeCommand(opts))
	cmd.AddCommand(checkcmd.NewCheckCommand(opts))
	cmd.AddCommand(resolvecmd.NewResolveCommand(opts))
	cmd.AddCommand(completecmd.NewCompleteCommand(opts))
	cmd.AddCommand(hovercmd.NewHoverCommand(opts))
	cmd.AddCommand(watchcmd.NewWatchCommand(opts))

	info, ok := debug.ReadBuildInfo()
	if !ok {
		cmd.Version = "unknown"
	} else {
		cmd.Version = info.Main.Version
	}

	cmd.InitDefaultVersionFlag()

	cmd.SilenceUsage = true

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
