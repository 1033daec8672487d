package main

import (
	"fmt"
	"time"

	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/spf13/cobra"

	_ "github.com/2x3systems/go2x3motif/pymotif"
	_ "github.com/go-python/gpython/stdlib"
)

const replStartup = `
import _motif
from _motif import NewGraph, Census, OpenCatalog
`

func newPyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "py [script.py]",
		Short: "runs a python script (or a REPL) with the _motif module available",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathname := ""
			if len(args) > 0 {
				pathname = args[0]
			}
			return runPython(cmd, pathname)
		},
	}
}

func runPython(cmd *cobra.Command, pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())

	var err error
	if len(pathname) == 0 {
		replCtx := repl.New(ctx)

		_, err = py.RunSrc(ctx, replStartup, "<startup>", replCtx.Module)
		if err == nil {
			cli.RunREPL(replCtx)
		}

	} else {
		out := cmd.ErrOrStderr()
		startTime := time.Now()
		fmt.Fprintf(out, "<<<>>>   executing '%s'   <<<>>>\n", pathname)

		_, err = py.RunFile(ctx, pathname, py.CompileOpts{}, nil)

		if err == nil {
			fmt.Fprintf(out, "<<<>>>   execution complete: %v   <<<>>>\n", time.Since(startTime))
		}
	}

	ctx.Close()
	<-ctx.Done()

	if err != nil {
		py.TracebackDump(err)
	}
	return err
}
