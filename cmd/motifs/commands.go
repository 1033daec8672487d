package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/2x3systems/go2x3motif/libmotif/canon"
	"github.com/2x3systems/go2x3motif/libmotif/catalog"
	"github.com/2x3systems/go2x3motif/libmotif/census"
	"github.com/2x3systems/go2x3motif/libmotif/freq"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/libmotif/match"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newCanonCmd() *cobra.Command {
	printMatrix := false

	cmd := &cobra.Command{
		Use:   "canon <graph-expr>...",
		Short: "prints the canonical order and form of each graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, expr := range args {
				X, err := graph.NewGraphFromString(expr)
				if err != nil {
					return err
				}
				res := canon.Label(X)
				Y := canon.Relabeled(X)

				fmt.Fprintf(out, "%q\n", expr)
				fmt.Fprintf(out, "    order:   %s\n", census.FormatNodes(res.Order))
				fmt.Fprintf(out, "    form:    %s\n", hex.EncodeToString(res.Form))
				fmt.Fprintf(out, "    canonic: %q\n", Y.String())
				fmt.Fprintf(out, "    search:  %d nodes, %d leaves\n", res.Stats.Nodes, res.Stats.Leaves)
				if printMatrix {
					Y.WriteAsString(out, motif.PrintOpts{
						Matrix: true,
						Labels: true,
					})
				}
				Y.Reclaim()
				X.Reclaim()
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&printMatrix, "matrix", "m", false, "also print the canonic adjacency matrix")
	return cmd
}

func newIsoCmd(loadConfig func() (Config, error)) *cobra.Command {
	var (
		induced      bool
		subgraph     bool
		ignoreLabels bool
	)

	cmd := &cobra.Command{
		Use:   "iso <graph-expr> <graph-expr>",
		Short: "tests if two graphs are isomorphic (or if the first is a subgraph of the second)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("induced") {
				induced = cfg.Induced
			}
			if !cmd.Flags().Changed("ignore-labels") {
				ignoreLabels = cfg.Census.IgnoreLabels
			}

			P, err := graph.NewGraphFromString(args[0])
			if err != nil {
				return err
			}
			defer P.Reclaim()
			T, err := graph.NewGraphFromString(args[1])
			if err != nil {
				return err
			}
			defer T.Reclaim()

			opts := match.Opts{
				Induced:      induced || !subgraph,
				IgnoreLabels: ignoreLabels,
				Cache:        canon.NewCache(4),
			}

			out := cmd.OutOrStdout()
			if subgraph {
				fmt.Fprintf(out, "%q in %q (induced=%v): ", args[0], args[1], opts.Induced)
			} else {
				fmt.Fprintf(out, "%q ~ %q: ", args[0], args[1])
				if P.NodeCount() != T.NodeCount() {
					fmt.Fprintln(out, "false")
					return nil
				}
			}

			mapping, found := match.FirstMapping(P, T, opts)
			fmt.Fprintln(out, found)
			if found {
				fmt.Fprintf(out, "    mapping: %s\n", mapping.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&induced, "induced", false, "with --subgraph, non-edges must map to non-edges")
	cmd.Flags().BoolVar(&subgraph, "subgraph", false, "test if the first graph occurs within the second")
	cmd.Flags().BoolVar(&ignoreLabels, "ignore-labels", false, "ignore node and edge labels")
	return cmd
}

func newCensusCmd(loadConfig func() (Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "census [graph-expr]...",
		Short: "counts the connected induced subgraphs of each graph by isomorphism class",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Census
			flags := cmd.Flags()
			if err = overrideCensusOpts(flags, &opts); err != nil {
				return err
			}
			if flags.Changed("catalog") {
				cfg.Catalog, _ = flags.GetString("catalog")
			}
			printNodes, _ := flags.GetBool("nodes")

			exprs := append(append([]string(nil), cfg.Graphs...), args...)
			if len(exprs) == 0 {
				return errors.New("no graphs given")
			}

			cat, err := catalog.Open(motif.CatalogOpts{
				DbPathName: cfg.Catalog,
			})
			if err != nil {
				return err
			}
			defer cat.Close()

			stream, err := census.StreamExprs(exprs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			censor := census.NewCensor(opts)
			tallies := stream.Census(censor).Collect()
			defer func() {
				for _, tally := range tallies {
					tally.Classes.Reclaim()
				}
			}()

			for _, tally := range tallies {
				if tally.Err != nil {
					return errors.Wrapf(tally.Err, "census of %q", tally.Expr)
				}
				classes := tally.Classes
				fmt.Fprintf(out, "census of %q (size %d, %v): %d classes, %d total\n", tally.Expr, opts.Size, opts.Rep, classes.Len(), classes.Total())
				printTable(out, classes, printNodes)
				if err = cat.Merge(classes); err != nil {
					return err
				}
			}

			if len(exprs) > 1 || cfg.Catalog != "" {
				fmt.Fprintf(out, "catalog (%d merges): %d classes\n", cat.NumMerges(), cat.NumMotifs())
				return cat.Select(func(rec *catalog.MotifRecord) bool {
					fmt.Fprintf(out, "%8d  %3d  %q\n", rec.Count, rec.Sources, rec.Expr)
					return true
				})
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntP("size", "k", motif.DefaultCensusOpts.Size, "nodes per motif")
	flags.String("key", motif.KeyBySubset.String(), "raw entry keying: subset or growth")
	flags.Bool("first-seen", false, "represent each class by the first subgraph seen")
	flags.Bool("exhaustive", false, "match every subgraph against every class")
	flags.Bool("ignore-labels", false, "ignore node and edge labels")
	flags.String("catalog", "", "catalog db path to accumulate counts into")
	flags.Bool("nodes", false, "print the host nodes of each class representative")
	return cmd
}

// overrideCensusOpts overwrites each field of opts whose flag was set on the command line.
func overrideCensusOpts(flags *pflag.FlagSet, opts *motif.CensusOpts) error {
	var err error
	if flags.Changed("size") {
		opts.Size, _ = flags.GetInt("size")
	}
	if flags.Changed("key") {
		keyMode, _ := flags.GetString("key")
		if opts.Key, err = motif.ParseKeyMode(keyMode); err != nil {
			return err
		}
	}
	if flags.Changed("first-seen") {
		opts.Rep = motif.RepCanonical
		if firstSeen, _ := flags.GetBool("first-seen"); firstSeen {
			opts.Rep = motif.RepFirstSeen
		}
	}
	if flags.Changed("exhaustive") {
		opts.Exhaustive, _ = flags.GetBool("exhaustive")
	}
	if flags.Changed("ignore-labels") {
		opts.IgnoreLabels, _ = flags.GetBool("ignore-labels")
	}
	return nil
}

func printTable(out io.Writer, tbl *freq.Table, printNodes bool) {
	for _, entry := range tbl.Entries() {
		line := strings.Builder{}
		fmt.Fprintf(&line, "%8d  %q", entry.Count, entry.Graph.String())
		if printNodes && entry.Nodes != nil {
			fmt.Fprintf(&line, "  %s", census.FormatNodes(entry.Nodes))
		}
		fmt.Fprintln(out, line.String())
	}
}
