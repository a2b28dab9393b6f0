// Package config loads the gridboard configuration file.
//
// The file is TOML. Every key is optional; missing keys keep the values of
// [Default]:
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//	write_timeout = "10s"
//	strict_moves = false
//
//	[log]
//	level = "info"
//
//	[store]
//	backend = "file"          # memory | file | sqlite | mongo
//	path = "/var/lib/gridboard"
//
//	[store.mongo]
//	uri = "mongodb://localhost:27017"
//	database = "gridboard"
//	collection = "boards"
//
//	[cache]
//	backend = "redis"         # none | file | redis
//	ttl = "5m"
//	prefix = "gridboard:"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[board]
//	default_columns = 12
//	default_breakpoint = 0
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/store"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "GRIDBOARD_CONFIG"

const appName = "gridboard"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Board  BoardConfig  `toml:"board"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	// StrictMoves rejects item moves that overlap or leave the section.
	StrictMoves bool `toml:"strict_moves"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// StoreConfig selects the board store.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Path    string      `toml:"path"`
	Mongo   MongoConfig `toml:"mongo"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects the cache in front of the store.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`
	Dir     string        `toml:"dir"`
	Prefix  string        `toml:"prefix"`
	Redis   RedisConfig   `toml:"redis"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// BoardConfig holds defaults for new boards.
type BoardConfig struct {
	DefaultColumns    int `toml:"default_columns"`
	DefaultBreakpoint int `toml:"default_breakpoint"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log:   LogConfig{Level: "info"},
		Store: StoreConfig{Backend: store.BackendFile},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     5 * time.Minute,
			Prefix:  appName + ":",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Board: BoardConfig{DefaultColumns: board.DefaultColumnCount},
	}
}

// Path resolves the config file location. An explicit path wins, then
// $GRIDBOARD_CONFIG, then $XDG_CONFIG_HOME/gridboard/config.toml and finally
// ~/.config/gridboard/config.toml.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path on top of the defaults. A missing file is not
// an error. Unknown keys are rejected so that typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "log.level")
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendSQLite, store.BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "store.backend: unknown backend %q", c.Store.Backend)
	}
	if c.Store.Backend == store.BackendMongo && c.Store.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store.mongo.uri is required for the mongo backend")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if err := errors.ValidateColumnCount(c.Board.DefaultColumns); err != nil {
		return err
	}
	if c.Board.DefaultBreakpoint < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "board.default_breakpoint must not be negative")
	}
	return nil
}

// LogLevel returns the configured level, or info if it does not parse.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// StoreOptions converts the store section for store.Open.
func (c Config) StoreOptions() store.Config {
	return store.Config{
		Backend: c.Store.Backend,
		Path:    c.Store.Path,
		Mongo: store.MongoConfig{
			URI:        c.Store.Mongo.URI,
			Database:   c.Store.Mongo.Database,
			Collection: c.Store.Mongo.Collection,
		},
	}
}

// DefaultLayout returns the layout given to boards created without one.
func (c Config) DefaultLayout() board.Layout {
	return board.Layout{
		Name:        board.DefaultLayoutName,
		ColumnCount: c.Board.DefaultColumns,
		Breakpoint:  c.Board.DefaultBreakpoint,
	}
}
