package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/config"
	"github.com/matzehuels/gridboard/pkg/buildinfo"
	"github.com/matzehuels/gridboard/pkg/cache"
	"github.com/matzehuels/gridboard/pkg/dispatch"
	"github.com/matzehuels/gridboard/pkg/observability"
	"github.com/matzehuels/gridboard/pkg/ops"
	"github.com/matzehuels/gridboard/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridboard"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Gridboard edits dashboard boards laid out on responsive grids",
		Long:              `Gridboard manages dashboard boards: widgets placed on column grids, grouped into categories and dynamic sections, with one placement per responsive layout.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $GRIDBOARD_CONFIG or ~/.config/gridboard/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.boardCommand())
	root.AddCommand(c.itemCommand())
	root.AddCommand(c.categoryCommand())
	root.AddCommand(c.sectionCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and applies the log level before any command
// runs.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	path, err := config.Path(c.configPath)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.Logger.Debug("loaded config", "path", path, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetDispatchHooks(hooks)
	observability.SetStoreHooks(hooks)
	observability.SetCacheHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Backend Factory
// =============================================================================

// backend is the opened store stack used by one command invocation.
type backend struct {
	store      store.Store
	dispatcher *dispatch.Dispatcher
	engine     *ops.Engine
}

func (b *backend) Close() error { return b.store.Close() }

// open builds the configured store, puts the cache in front of it and
// returns a dispatcher over the result. The caller closes the backend.
func (c *CLI) open(ctx context.Context) (*backend, error) {
	base, err := store.Open(ctx, c.cfg.StoreOptions())
	if err != nil {
		return nil, err
	}

	s := base
	if c.cfg.Cache.Backend != config.CacheNone {
		ch, err := c.openCache()
		if err != nil {
			base.Close()
			return nil, err
		}
		keys := cache.NewScopedKeyer(nil, c.cfg.Store.Backend+":")
		s = store.NewCached(base, ch, keys, c.cfg.Cache.TTL)
	}

	var engineOpts []ops.Option
	if c.cfg.Server.StrictMoves {
		engineOpts = append(engineOpts, ops.WithStrictMoves())
	}
	return &backend{
		store:      s,
		dispatcher: dispatch.NewDispatcher(s, dispatch.WithLogger(c.Logger)),
		engine:     ops.NewEngine(engineOpts...),
	}, nil
}

// openCache returns the configured cache. The none backend yields a
// NullCache.
func (c *CLI) openCache() (cache.Cache, error) {
	switch c.cfg.Cache.Backend {
	case config.CacheFile:
		dir, err := c.fileCacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.cfg.Cache.Redis.Addr,
			Password: c.cfg.Cache.Redis.Password,
			DB:       c.cfg.Cache.Redis.DB,
		})
		return cache.NewRedisCache(client, c.cfg.Cache.Prefix), nil
	default:
		return cache.NewNullCache(), nil
	}
}

func (c *CLI) fileCacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gridboard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
