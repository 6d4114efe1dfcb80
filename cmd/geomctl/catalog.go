package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/TuSKan/go-geometry/catalog"
)

func (a *app) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage named geometries in a bucket",
	}
	cmd.PersistentFlags().StringVar(&a.bucketURL, "bucket", "", "bucket URL, e.g. file:///var/geometries (required)")
	_ = cmd.MarkPersistentFlagRequired("bucket")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "put <name> <spec>",
			Short: "Store a geometry under a name",
			Args:  cobra.ExactArgs(2),
			RunE: a.withCatalog(func(ctx context.Context, cmd *cobra.Command, c *catalog.Catalog, args []string) error {
				g, err := a.repo.Geometry(args[1])
				if err != nil {
					return err
				}
				if err := c.Put(ctx, args[0], g); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), g.Key())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "get <name>",
			Short: "Print the geometry stored under a name",
			Args:  cobra.ExactArgs(1),
			RunE: a.withCatalog(func(ctx context.Context, cmd *cobra.Command, c *catalog.Catalog, args []string) error {
				g, err := c.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), g.Encode())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the stored names",
			Args:  cobra.NoArgs,
			RunE: a.withCatalog(func(ctx context.Context, cmd *cobra.Command, c *catalog.Catalog, _ []string) error {
				names, err := c.List(ctx)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Remove a stored geometry",
			Args:  cobra.ExactArgs(1),
			RunE: a.withCatalog(func(ctx context.Context, _ *cobra.Command, c *catalog.Catalog, args []string) error {
				return c.Delete(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "snapshot <file>",
			Short: "Write every stored geometry to a compressed manifest",
			Args:  cobra.ExactArgs(1),
			RunE: a.withCatalog(func(ctx context.Context, _ *cobra.Command, c *catalog.Catalog, args []string) error {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create snapshot: %w", err)
				}
				if err := c.Snapshot(ctx, f); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			}),
		},
		&cobra.Command{
			Use:   "restore <file>",
			Short: "Store every geometry of a manifest written by snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: a.withCatalog(func(ctx context.Context, cmd *cobra.Command, c *catalog.Catalog, args []string) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open snapshot: %w", err)
				}
				defer f.Close()
				n, err := c.Restore(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %d geometries\n", n)
				return nil
			}),
		},
	)
	return cmd
}

type catalogFunc func(ctx context.Context, cmd *cobra.Command, c *catalog.Catalog, args []string) error

// withCatalog opens the bucket for the duration of fn.
func (a *app) withCatalog(fn catalogFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		c, err := catalog.Open(ctx, a.bucketURL, a.repo, catalog.WithLogger(a.logger))
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(ctx, cmd, c, args)
	}
}
