package main

import (
	"flag"
	"io"
	"os"

	"github.com/2x3systems/go2x3motif/motif"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

func main() {

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	root := newRootCmd(os.Stdout)
	root.PersistentFlags().AddGoFlagSet(fset)
	err := root.Execute()

	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "motifs",
		Short:         "graph canonicalization, isomorphism, and motif census",
		Version:       motif.LIB_VERSION,
		SilenceUsage: true,
	}
	root.SetOut(out)

	var configPathname string
	root.PersistentFlags().StringVarP(&configPathname, "config", "c", "", "YAML config file")

	loadConfig := func() (Config, error) {
		return LoadConfig(configPathname)
	}

	root.AddCommand(
		newCanonCmd(),
		newIsoCmd(loadConfig),
		newCensusCmd(loadConfig),
		newPyCmd(),
	)
	return root
}
