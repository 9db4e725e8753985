/*
Tlexd starts a tunalex server and begins listening for new connections.

Usage:

	tlexd [flags]

Once started, the server will listen for HTTP requests and respond to them
using REST protocol. Clients upload language tables, which are compiled into
lexers and stored, and then send text to be tokenized by them. By default, it
will listen on localhost:8080.

Settings are taken from the config file given with --config, then from
environment variables, then from flags; each later source overrides the
earlier ones.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. Likewise, if no API key is given one is generated and
logged at startup. Both are suitable for testing, but must be given in
production.

The flags are:

	--version
		Give the current version of the server and then exit.

	-c, --config FILE
		Load settings from the given TOML config file.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Overrides environment variable TLEXD_LISTEN_ADDRESS.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. Overrides environment variable TLEXD_TOKEN_SECRET.

	-k, --api-key KEY
		Require clients to log in with KEY. Overrides environment variable
		TLEXD_API_KEY.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. Overrides environment
		variable TLEXD_DATABASE. Defaults to inmem.

	-v, --verbose
		Log at debug level.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dekarrin/tunalex/internal/version"
	"github.com/dekarrin/tunalex/server"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	EnvListen = "TLEXD_LISTEN_ADDRESS"
	EnvSecret = "TLEXD_TOKEN_SECRET"
	EnvAPIKey = "TLEXD_API_KEY"
	EnvDB     = "TLEXD_DATABASE"
)

var (
	flagVersion = pflag.Bool("version", false, "Give the current version of the server and then exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Load settings from the given TOML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagAPIKey  = pflag.StringP("api-key", "k", "", "Require clients to log in with the given key.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagVerbose = pflag.BoolP("verbose", "v", false, "Log at debug level.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (tunalex v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	logCfg := zap.NewProductionConfig()
	if *flagVerbose {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not create logger: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := buildConfig(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("could not start server", zap.Error(err))
	}
	defer srv.Close()
	log.Debug("server initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting tunalex server", zap.String("version", version.ServerCurrent))
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(2)
	}
	log.Info("server shut down")
}

// setting returns the value of the named flag if it was given, otherwise the
// value of the environment variable env.
func setting(flagName string, flagVal *string, env string) string {
	if pflag.Lookup(flagName).Changed {
		return *flagVal
	}
	return os.Getenv(env)
}

func buildConfig(log *zap.Logger) (server.Config, error) {
	var cfg server.Config
	var err error

	if *flagConfig != "" {
		cfg, err = server.LoadConfig(*flagConfig)
		if err != nil {
			return cfg, err
		}
	}

	if listenAddr := setting("listen", flagListen, EnvListen); listenAddr != "" {
		cfg.ListenAddress, cfg.Port, err = server.ParseListenAddress(listenAddr)
		if err != nil {
			return cfg, fmt.Errorf("listen address: %w", err)
		}
	}

	if dbConnStr := setting("db", flagDB, EnvDB); dbConnStr != "" {
		cfg.DB, err = server.ParseDBConnString(dbConnStr)
		if err != nil {
			return cfg, fmt.Errorf("db: %w", err)
		}
	}

	if key := setting("api-key", flagAPIKey, EnvAPIKey); key != "" {
		cfg.APIKey = key
	}
	if cfg.APIKey == "" {
		cfg.APIKey = uuid.NewString()
		log.Warn("using generated API key; give one with --api-key to keep it stable", zap.String("key", cfg.APIKey))
	}

	if tokSecStr := setting("secret", flagSecret, EnvSecret); tokSecStr != "" {
		cfg.TokenSecret = []byte(tokSecStr)
	}
	if len(cfg.TokenSecret) > 0 {
		for len(cfg.TokenSecret) < server.MinSecretSize {
			cfg.TokenSecret = append(cfg.TokenSecret, cfg.TokenSecret...)
		}
		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			return cfg, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(cfg.TokenSecret), server.MaxSecretSize)
		}
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			return cfg, fmt.Errorf("could not generate token secret: %w", err)
		}
		log.Warn("using generated token secret; all tokens issued will become invalid at shutdown")
	}

	return cfg, nil
}
