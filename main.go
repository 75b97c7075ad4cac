package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorylane/apps/go-server/internal/config"
	"github.com/robalobadob/memorylane/apps/go-server/internal/httpserver"
	"github.com/robalobadob/memorylane/apps/go-server/internal/store"
	"github.com/robalobadob/memorylane/apps/go-server/internal/symbols"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("go-server exited")
	}
}

// run returns instead of exiting so deferred cleanup closes the store.
func run() error {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := symbols.Init(); err != nil {
		return fmt.Errorf("load symbol list: %w", err)
	}

	st := store.NewMemoryStore()
	if cfg.DBPath != "" {
		var err error
		if st, err = store.OpenSQLite(cfg.DBPath); err != nil {
			return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
		}
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	srv := httpserver.New(st, cfg)
	log.Info().Str("port", cfg.Port).Bool("durable", cfg.DBPath != "").Msg("starting go-server")
	return srv.Start(":" + cfg.Port)
}
