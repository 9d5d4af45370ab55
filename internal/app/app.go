// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/uniconnect/internal/config"
	"github.com/markdave123-py/uniconnect/internal/core"
	db "github.com/markdave123-py/uniconnect/internal/core/database"
	"github.com/markdave123-py/uniconnect/internal/core/memstore"
	objectclient "github.com/markdave123-py/uniconnect/internal/core/object-client"
)

type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	var (
		dbClient  core.DbClient
		objClient core.ObjectClient
	)

	g, gctx := errgroup.WithContext(appCtx)
	g.Go(func() error {
		client, err := newStore(gctx, cfg)
		if err != nil {
			return err
		}
		dbClient = client
		log.Printf("Store (%s) initialized and ready.", cfg.StoreDriver)
		return nil
	})
	g.Go(func() error {
		if !cfg.HasS3Credentials() {
			objClient = objectclient.NewPlaceholderClient()
			log.Println("No AWS credentials; uploads return placeholder URLs.")
			return nil
		}
		client, err := objectclient.NewS3Client(gctx, cfg)
		if err != nil {
			return err
		}
		objClient = client
		log.Println("Object client initialized and ready.")
		return nil
	})
	if err := g.Wait(); err != nil {
		if dbClient != nil {
			_ = dbClient.Close()
		}
		return nil, err
	}

	server := NewServer(cfg, NewRouter(cfg, dbClient, objClient))
	return &App{DBClient: dbClient, ObjectClient: objClient, Server: server}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (core.DbClient, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return memstore.New(), nil
	case config.StorePostgres:
		client, err := db.NewDatabaseClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
