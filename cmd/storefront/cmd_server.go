package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/event"
	healthgrpc "github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// storefront serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	if uri := config.Get("LOG_MONGO_URI", ""); uri != "" {
		flush, err := logger.EnableMongoSink(uri, config.MongoDatabase(), "logs")
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			defer flush()
		}
	}

	store, err := kernel.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close(context.Background()) //nolint:errcheck
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rc, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword(), "storefront:")
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
		rc = nil
	} else {
		defer rc.Close() //nolint:errcheck
	}

	gw, err := kernel.Gateway()
	if err != nil {
		return err
	}

	bus := event.New(4, 256)
	defer bus.Close()

	feed := ws.NewHub(ws.AllowOrigins(config.CORSOrigins()))
	go feed.Run(ctx)

	k, err := kernel.New(kernel.Deps{
		Store:              store,
		Gateway:            gw,
		Cache:              rc,
		Bus:                bus,
		Feed:               feed,
		Secret:             []byte(config.JWTSecret()),
		TokenTTL:           config.JWTTTL(),
		CORSOrigins:        config.CORSOrigins(),
		RateLimitPerMinute: config.RateLimitPerMinute(),
	})
	if err != nil {
		return err
	}

	if port := config.Get("GRPC_PORT", ""); port != "" {
		lis, err := net.Listen("tcp", ":"+port)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		health := healthgrpc.New(store.Ping, 15*time.Second)
		go func() {
			if err := health.Serve(ctx, lis); err != nil {
				logger.Error("grpc: serve failed", "error", err)
			}
		}()
	}

	logger.Info("storefront starting", "env", config.AppEnv(), "db", config.DatabaseDriver(), "port", config.AppPort())
	return server.Start(ctx, server.New(":"+config.AppPort(), k.Handler()))
}

// storefront route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := kernel.New(kernel.Deps{Store: &repositories.Store{}})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}
