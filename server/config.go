package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tunalex/server/dao"
	"github.com/dekarrin/tunalex/server/dao/inmem"
	"github.com/dekarrin/tunalex/server/dao/sqlite"
)

// DBType is the type of a Database connection.
type DBType string

func (dbt DBType) String() string {
	return string(dbt)
}

const (
	DatabaseNone     DBType = "none"
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

// Bounds on the length of Config.TokenSecret, in bytes.
const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// ParseDBType parses the engine part of a connection string.
func ParseDBType(s string) (DBType, error) {
	switch DBType(strings.ToLower(s)) {
	case DatabaseSQLite:
		return DatabaseSQLite, nil
	case DatabaseInMemory:
		return DatabaseInMemory, nil
	case DatabaseNone:
		return DatabaseNone, fmt.Errorf("DB type 'none' cannot be used (perhaps you wanted 'inmem'?)")
	default:
		return DatabaseNone, fmt.Errorf("DB type not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database says where compiled lexers are kept.
type Database struct {
	Type DBType

	// DataDir is the directory that holds the database files. Only used by
	// DatabaseSQLite.
	DataDir string
}

// Connect opens the configured store, creating DataDir first if needed.
func (db Database) Connect() (dao.Store, error) {
	if err := db.Validate(); err != nil {
		return nil, err
	}

	if db.Type == DatabaseInMemory {
		return inmem.NewDatastore(), nil
	}

	if err := os.MkdirAll(db.DataDir, 0770); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := sqlite.NewDatastore(db.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite: %w", err)
	}
	return store, nil
}

// Validate returns an error if db is not a usable type or is missing a field
// that its type needs.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("'none' DB is not valid")
	default:
		return fmt.Errorf("unknown database type: %q", db.Type.String())
	}
}

// ParseDBConnString parses a connection string of the form "engine:params",
// or just "engine" when there are no params. "inmem" keeps everything in
// memory and "sqlite:/var/lib/tlexd" keeps SQLite files in that directory.
func ParseDBConnString(s string) (Database, error) {
	engine, params, _ := strings.Cut(s, ":")
	params = strings.TrimSpace(params)

	dbType, err := ParseDBType(strings.TrimSpace(engine))
	if err != nil {
		return Database{}, fmt.Errorf("unsupported DB engine: %w", err)
	}

	db := Database{Type: dbType}
	switch dbType {
	case DatabaseInMemory:
		if params != "" {
			return Database{}, fmt.Errorf("unsupported param(s) for in-memory DB engine: %s", params)
		}
	case DatabaseSQLite:
		if params == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		db.DataDir = params
	}
	return db, nil
}

// Config is a configuration for a server. It contains all parameters that can
// be used to configure the operation of a Server.
type Config struct {

	// TokenSecret is the secret used for signing tokens. If not provided, a
	// default key is used.
	TokenSecret []byte

	// APIKey is the key that clients must present to log in. It has no
	// default; a Config without one does not validate.
	APIKey string

	// Database is the configuration to use for connecting to the database. If
	// not provided, it will be set to a configuration for using an in-memory
	// persistence layer.
	DB Database

	// UnauthDelayMillis is the amount of additional time to wait
	// (in milliseconds) before sending a response that indicates either that
	// the client was unauthorized or the client was unauthenticated. This is
	// something of an "anti-flood" measure for naive clients attempting
	// non-parallel connections. If not set it will default to 1 second
	// (1000ms). Set this to any negative number to disable the delay.
	UnauthDelayMillis int

	// ListenAddress is the address to bind to. Empty means all interfaces,
	// but if Port is also unset both default to localhost:8080.
	ListenAddress string

	// Port is the port to listen on. Defaults to 8080.
	Port int
}

// UnauthDelay returns the configured time for the UnauthDelay as a
// time.Duration. If cfg.UnauthDelayMillis is set to a number less than 1, this
// will return a zero-valued time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		var dur time.Duration
		return dur
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.TokenSecret == nil {
		newCFG.TokenSecret = []byte("DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!")
	}
	if newCFG.DB.Type == "" || newCFG.DB.Type == DatabaseNone {
		newCFG.DB = Database{Type: DatabaseInMemory}
	}
	if newCFG.UnauthDelayMillis == 0 {
		newCFG.UnauthDelayMillis = 1000
	}
	// an address without a port was given as ":PORT" and means all
	// interfaces, so only default the address when neither is set.
	if newCFG.Port == 0 {
		if newCFG.ListenAddress == "" {
			newCFG.ListenAddress = "localhost"
		}
		newCFG.Port = 8080
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be used,
// call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("api key: must be set")
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port: must be between 1 and 65535, but is %d", cfg.Port)
	}

	// all possible values for UnauthDelayMillis are valid, so no need to check it

	return nil
}

// fileConfig is the layout of a server config file.
type fileConfig struct {
	TokenSecret       string `toml:"token_secret"`
	APIKey            string `toml:"api_key"`
	DB                string `toml:"db"`
	UnauthDelayMillis int    `toml:"unauth_delay_ms"`
	Listen            string `toml:"listen"`
}

// LoadConfig reads a TOML server config file. Keys that are not in the file
// are left unset in the returned Config, for FillDefaults or flags to provide.
// For example:
//
//	token_secret = "a secret of at least thirty-two bytes"
//	api_key = "open sesame"
//	db = "sqlite:/var/lib/tlexd"
//	unauth_delay_ms = 500
//	listen = ":8080"
func LoadConfig(path string) (Config, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undec[0].String())
	}

	cfg := Config{
		APIKey:            fc.APIKey,
		UnauthDelayMillis: fc.UnauthDelayMillis,
	}
	if fc.TokenSecret != "" {
		cfg.TokenSecret = []byte(fc.TokenSecret)
	}
	if fc.DB != "" {
		cfg.DB, err = ParseDBConnString(fc.DB)
		if err != nil {
			return Config{}, fmt.Errorf("%s: db: %w", path, err)
		}
	}
	if fc.Listen != "" {
		cfg.ListenAddress, cfg.Port, err = ParseListenAddress(fc.Listen)
		if err != nil {
			return Config{}, fmt.Errorf("%s: listen: %w", path, err)
		}
	}

	return cfg, nil
}

// ParseListenAddress splits an address in ADDRESS:PORT or :PORT format. An
// empty ADDRESS is returned as-is.
func ParseListenAddress(s string) (addr string, port int, err error) {
	bindParts := strings.SplitN(s, ":", 2)
	if len(bindParts) != 2 {
		return "", 0, fmt.Errorf("not in ADDRESS:PORT or :PORT format")
	}

	port, err = strconv.Atoi(bindParts[1])
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("%q is not a valid port number", bindParts[1])
	}

	return bindParts[0], port, nil
}
