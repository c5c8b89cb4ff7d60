package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"construtora/internal/db"
	"construtora/internal/metrics"
	"construtora/internal/server"
	"construtora/internal/storage"
	"construtora/internal/store"
	"construtora/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

// bucketEnsurer is implemented by backends that can create their own buckets.
type bucketEnsurer interface {
	EnsureBucket(ctx context.Context, bucket string) error
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(config)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)

	blobs, err := storage.New(config, awsConfig)
	if err != nil {
		return fmt.Errorf("failed to configure blob storage: %w", err)
	}

	if ensurer, ok := blobs.(bucketEnsurer); ok {
		for _, kind := range types.DocumentKinds {
			if err := ensurer.EnsureBucket(ctx, kind.Bucket); err != nil {
				return fmt.Errorf("failed to ensure bucket %s: %w", kind.Bucket, err)
			}
		}
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	projectRepo := store.NewProjectRepository(pool)
	employeeRepo := store.NewEmployeeRepository(pool)
	vehicleRepo := store.NewVehicleRepository(pool)
	accommodationRepo := store.NewAccommodationRepository(pool)

	registry := newRegistry(logger, pool, blobs)

	jwkCache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(ctx, jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwks with cache: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)

	srv, err := server.New(
		config,
		logger,
		cognitoClient,
		userRepo,
		projectRepo,
		employeeRepo,
		vehicleRepo,
		accommodationRepo,
		registry,
		jwkCache,
		jwksURL,
		reg,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
