package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/config"
	"github.com/matzehuels/gridboard/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the board cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.cfg.Cache.Backend == config.CacheNone {
				printWarning(out, "Caching is disabled, nothing to clear")
				return nil
			}

			ch, err := c.openCache()
			if err != nil {
				return err
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", c.cfg.Cache.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(out, "Cleared %s cache", c.cfg.Cache.Backend)
			printDetail(out, "Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := c.cacheLocation()
			if loc == "" {
				printInfo(cmd.OutOrStdout(), "Caching is disabled")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// cacheLocation returns the cache directory or the Redis URL, or "" when
// caching is disabled.
func (c *CLI) cacheLocation() string {
	switch c.cfg.Cache.Backend {
	case config.CacheFile:
		dir, err := c.fileCacheDir()
		if err != nil {
			return ""
		}
		return dir
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d", c.cfg.Cache.Redis.Addr, c.cfg.Cache.Redis.DB)
	default:
		return ""
	}
}
