package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/smartquiz/smartquiz-server/internal/api/http/handler"
	"github.com/smartquiz/smartquiz-server/internal/api/http/router"
	httpserver "github.com/smartquiz/smartquiz-server/internal/api/http/server"
	"github.com/smartquiz/smartquiz-server/internal/config"
	"github.com/smartquiz/smartquiz-server/internal/logger"
	"github.com/smartquiz/smartquiz-server/internal/model"
	"github.com/smartquiz/smartquiz-server/internal/quizgen"
	"github.com/smartquiz/smartquiz-server/internal/repository/postgres"
	"github.com/smartquiz/smartquiz-server/internal/server"
	"github.com/smartquiz/smartquiz-server/internal/service"
	storage "github.com/smartquiz/smartquiz-server/internal/storage/minio"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz authoring server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	l := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		l.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	snapshotRepo := postgres.NewSnapshotRepository(db, cfg.Snapshot.Key, cfg.Snapshot.MaxBytes, cfg.Snapshot.AdminPhone, l.WithComponent("snapshots"))

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		l.Fatal("failed to create minio client", "error", err)
	}
	blobStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		l.Fatal("failed to initialize blob storage", "error", err)
	}

	store := service.NewStore(snapshotRepo, blobStore, l.WithComponent("store"))

	geminiClient := quizgen.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model)
	generator := quizgen.NewGenerator(geminiClient, cfg.Gemini.MaxAttempts, cfg.Gemini.RetryDelay, l.WithComponent("quizgen"))

	engine := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(store, l),
		User:     handler.NewUserHandler(store, l),
		Document: handler.NewDocumentHandler(store, generator, cfg.Upload.MaxSizeBytes, l),
		Quiz:     handler.NewQuizHandler(store, l),
	}, l)

	var srv model.Server = httpserver.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info("starting server", "address", srv.Address())
		return srv.Start(sl)
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info("received interruption signal, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	l.Info("shutdown complete")
	return nil
}
