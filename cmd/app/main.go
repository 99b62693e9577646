package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"ecoleta/cmd/fx/config_fx"
	"ecoleta/cmd/fx/controllers_fx"
	"ecoleta/cmd/fx/db_fx"
	"ecoleta/cmd/fx/items_fx"
	"ecoleta/cmd/fx/location_fx"
	"ecoleta/cmd/fx/memcache_fx"
	"ecoleta/cmd/fx/metrics_fx"
	"ecoleta/cmd/fx/points_fx"
	"ecoleta/cmd/fx/storage_fx"
	"ecoleta/internal/api"
	"ecoleta/internal/config"
)

func main() {
	app := fx.New(appOptions()...)
	app.Run()
}

func appOptions() []fx.Option {
	return []fx.Option{
		config_fx.Module,
		metrics_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		storage_fx.Module,
		items_fx.Module,
		points_fx.Module,
		location_fx.Module,
		controllers_fx.Module,

		fx.Provide(api.NewRouter),
		fx.Invoke(StartServer),
	}
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Printf("Starting HTTP server at %s", srv.Addr)
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
