// Package cli defines the todo command tree.
package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/todo/pkg/app"
	"github.com/harrisonrobin/todo/pkg/config"
	"github.com/harrisonrobin/todo/pkg/storage"
)

// NewRootCmd returns the top-level command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "Manage a to-do list from the terminal, a browser or your calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newToggleCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newStatsCmd(),
		newCategoriesCmd(),
		newServeCmd(),
		newImportCmd(),
		newCalendarCmd(),
	)
	return root
}

// openStorage selects the backend named in cfg. The returned close
// function releases backend connections.
func openStorage(cfg *config.Config) (storage.KV, func() error, error) {
	switch cfg.Storage {
	case config.StorageRedis:
		kv := storage.NewRedisKV(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
		return kv, kv.Close, nil
	case config.StorageFile, "":
		return storage.NewFileKV(cfg.DataDir), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}

// withSession loads the configuration, opens the collection and runs fn.
func withSession(ctx context.Context, fn func(cfg *config.Config, s *app.Session) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	kv, closeKV, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeKV(); err != nil {
			log.Printf("[Storage] Error closing backend: %v", err)
		}
	}()

	session, err := app.Open(ctx, kv, cfg.StorageKey, cfg.Locale)
	if err != nil {
		return err
	}
	return fn(cfg, session)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}
