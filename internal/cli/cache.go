package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hanoi/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the trace cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var disks []int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached traces",
		Long: `Remove cached traces. Without --disks every file cache entry is removed;
with --disks only the listed disk counts are evicted, which also works
against a Redis cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(disks) > 0 {
				return c.evictTraces(cmd.Context(), disks)
			}
			if c.Config.Cache.RedisURL != "" {
				printWarning("Redis cache configured; use --disks to evict entries")
				return nil
			}

			dir, err := c.Config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&disks, "disks", nil, "only evict the traces for these disk counts")

	return cmd
}

func (c *CLI) evictTraces(ctx context.Context, disks []int) error {
	cc, err := c.newCache(ctx, false)
	if err != nil {
		return err
	}
	defer cc.Close()

	keyer := cache.NewDefaultKeyer()
	for _, n := range disks {
		if err := cc.Delete(ctx, keyer.TraceKey(n)); err != nil {
			return fmt.Errorf("evict %d disks: %w", n, err)
		}
	}
	printSuccess("Evicted %d cached traces", len(disks))
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.Config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
