package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TuSKan/go-geometry"
	"github.com/TuSKan/go-geometry/batch"
)

func formatSize(n int64) string {
	switch n {
	case geometry.Undefined:
		return "undefined"
	case geometry.Infinite:
		return "infinite"
	default:
		return strconv.FormatInt(n, 10)
	}
}

func (a *app) encodeCmd() *cobra.Command {
	var withKey bool
	cmd := &cobra.Command{
		Use:   "encode <spec>...",
		Short: "Print the canonical encoding of each geometry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, spec := range args {
				g, err := a.repo.Geometry(spec)
				if err != nil {
					return err
				}
				if withKey {
					fmt.Fprintf(out, "%s\t%s\n", g.Encode(), g.Key())
				} else {
					fmt.Fprintln(out, g.Encode())
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&withKey, "key", "k", false, "also print the synthetic key")
	return cmd
}

func (a *app) sizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size <spec>",
		Short: "Describe a geometry and the size of each dimension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.repo.Geometry(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, g.Encode())
			fmt.Fprintf(out, "label\t%s\n", g.Label())
			fmt.Fprintf(out, "size\t%s\n", formatSize(g.Size()))
			for _, d := range g.Dimensions() {
				fmt.Fprintf(out, "%s\t%s\n", d.Kind(), formatSize(d.Size()))
			}
			return nil
		},
	}
}

func (a *app) mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <spec> <spec>...",
		Short: "Merge geometries left to right",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := a.repo.Geometry(args[0])
			if err != nil {
				return err
			}
			for _, spec := range args[1:] {
				other, err := a.repo.Geometry(spec)
				if err != nil {
					return err
				}
				next, ok := merged.Merge(other)
				if !ok {
					return fmt.Errorf("cannot merge %s into %s", other, merged)
				}
				merged = next
			}
			fmt.Fprintln(cmd.OutOrStdout(), merged.Encode())
			return nil
		},
	}
}

func (a *app) locateCmd() *cobra.Command {
	var reduce string
	cmd := &cobra.Command{
		Use:   "locate <geometry@offsets>",
		Short: "Resolve an offset to its linear position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := geometry.ParseOffset(args[0], nil)
			if err != nil {
				return err
			}
			if reduce != "" {
				target, err := a.repo.Geometry(reduce)
				if err != nil {
					return err
				}
				if o, err = o.ReduceTo(target); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "offset\t%s\n", o)
			fmt.Fprintf(out, "scalar\t%t\n", o.Scalar())
			fmt.Fprintf(out, "position\t%d\n", o.Position())
			return nil
		},
	}
	cmd.Flags().StringVar(&reduce, "reduce", "", "reduce the offset to this geometry first")
	return cmd
}

func (a *app) cellsCmd() *cobra.Command {
	var (
		at        string
		batchSize int
		coords    bool
	)
	cmd := &cobra.Command{
		Use:   "cells <spec>",
		Short: "List the cells of a geometry, one batch per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.repo.Geometry(args[0])
			if err != nil {
				return err
			}
			o := geometry.NewOffset(g)
			if at != "" {
				if o, err = geometry.ParseOffset(at, g); err != nil {
					return err
				}
			}
			sweep, err := batch.NewSweep(o)
			if err != nil {
				return err
			}
			a.logger.Debug("sweeping cells", "offset", o.String(), "cells", sweep.Total())

			if coords {
				return printCoordinates(cmd.OutOrStdout(), sweep, batchSize)
			}
			return printPositions(cmd.OutOrStdout(), sweep, batchSize)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "offsets to hold fixed, '*' sweeps a dimension")
	cmd.Flags().IntVarP(&batchSize, "batch", "b", 16, "cells per line")
	cmd.Flags().BoolVar(&coords, "coords", false, "print coordinates instead of positions")
	return cmd
}

func printPositions(out io.Writer, sweep *batch.Sweep, batchSize int) error {
	for {
		t, err := sweep.NextBatch(batchSize)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		values := t.Value().([]int64)
		fields := make([]string, len(values))
		for i, v := range values {
			fields[i] = strconv.FormatInt(v, 10)
		}
		fmt.Fprintln(out, strings.Join(fields, " "))
	}
}

func printCoordinates(out io.Writer, sweep *batch.Sweep, batchSize int) error {
	for {
		t, err := sweep.NextCoordinates(batchSize)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		rows := t.Value().([][]int64)
		fields := make([]string, len(rows))
		for i, row := range rows {
			parts := make([]string, len(row))
			for j, v := range row {
				if v == geometry.Infinite {
					parts[j] = "∞"
				} else {
					parts[j] = strconv.FormatInt(v, 10)
				}
			}
			fields[i] = "(" + strings.Join(parts, ",") + ")"
		}
		fmt.Fprintln(out, strings.Join(fields, " "))
	}
}
