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

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"coolbooks_server/config"
	"coolbooks_server/controllers"
	"coolbooks_server/logger"
	"coolbooks_server/middleware"
	"coolbooks_server/routes"
	"coolbooks_server/services"
	"coolbooks_server/socket"
)

func main() {
	root := &cobra.Command{
		Use:   "coolbooks",
		Short: "Book exchange marketplace API",
		Long: `Book exchange marketplace API.

Users list the books they own together with the types of books they want in
exchange, and get back the listings of other users matching those types.`,
	}
	serve := newServeCommand(viper.GetViper())
	root.AddCommand(serve)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand(v *viper.Viper) *cobra.Command {
	config.Setup(v)
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()

	flags.String("http-addr", defaults.HTTP.Addr, "the host:port address to serve the HTTP server on")
	config.MustBindPFlag(v, "http.addr", flags.Lookup("http-addr"))
	config.MustBindEnv(v, "http.addr", "COOLBOOKS_HTTP_ADDR", "PORT")

	flags.String("log-format", defaults.Log.Format, "the log format to output logs in (json or text)")
	config.MustBindPFlag(v, "log.format", flags.Lookup("log-format"))

	flags.String("log-level", defaults.Log.Level, "the log level to use (none, debug, info, warn, error)")
	config.MustBindPFlag(v, "log.level", flags.Lookup("log-level"))

	flags.String("aws-region", defaults.AWS.Region, "the AWS region of the table, user pool and bucket")
	config.MustBindPFlag(v, "aws.region", flags.Lookup("aws-region"))
	config.MustBindEnv(v, "aws.region", "COOLBOOKS_AWS_REGION", "AWS_REGION")

	flags.String("directory-backend", defaults.Directory.Backend, "where owner profiles are resolved (cognito or dynamodb)")
	config.MustBindPFlag(v, "directory.backend", flags.Lookup("directory-backend"))

	flags.String("images-backend", defaults.Images.Backend, "where listing pictures are stored (s3 or minio)")
	config.MustBindPFlag(v, "images.backend", flags.Lookup("images-backend"))

	flags.Int("max-concurrent-lookups", defaults.Match.MaxConcurrentLookups, "the maximum number of concurrent store or directory lookups per request stage")
	config.MustBindPFlag(v, "match.maxConcurrentLookups", flags.Lookup("max-concurrent-lookups"))

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log, err := logger.NewLogger(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := services.LoadAWSConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return err
	}

	dynamoService := &services.DynamoService{Client: services.InitializeDynamoDBClient(awsCfg), Log: log}
	store := services.NewDynamoListingStore(dynamoService, cfg.DynamoDB.Table, cfg.DynamoDB.OwnerIndex, cfg.DynamoDB.TypeIndex)

	var directory services.ProfileDirectory
	switch cfg.Directory.Backend {
	case "dynamodb":
		directory = services.NewDynamoProfileDirectory(dynamoService, cfg.Directory.ProfilesTable)
	default:
		directory = services.NewCognitoDirectory(awsCfg, cfg.Directory.UserPoolID)
	}

	var images services.ImageStore
	switch cfg.Images.Backend {
	case "minio":
		images, err = services.NewMinioImageStore(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.Images.Bucket, cfg.MinIO.UseSSL, log)
		if err != nil {
			return err
		}
	default:
		images = services.NewS3ImageStore(awsCfg, cfg.Images.Bucket)
	}

	r := mux.NewRouter()
	routes.RegisterRoutes(r)

	var notifiers services.MultiNotifier
	if cfg.Socket.Enabled {
		socketServer := socket.NewSocketServer(log)
		go func() {
			if err := socketServer.Serve(); err != nil {
				log.Error("socket.io server stopped", zap.Error(err))
			}
		}()
		defer socketServer.Close()

		routes.RegisterSocketRoutes(r, socketServer.Handler())
		notifiers = append(notifiers, socketServer)
	}
	if cfg.NATS.URL != "" {
		natsNotifier, conn, err := services.NewNATSNotifier(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			return err
		}
		defer conn.Close()
		notifiers = append(notifiers, natsNotifier)
	}

	matchService := services.NewMatchService(store, directory, log, cfg.Match.MaxConcurrentLookups)
	listingService := services.NewListingService(store, images, notifiers, cfg.Images.Prefix, log)
	bookController := controllers.NewBookController(matchService, listingService, log)

	auth := middleware.Authenticate([]byte(cfg.Auth.JWTSecret), cfg.Auth.UserClaim, log)
	routes.RegisterBookRoutes(r, bookController, auth, log)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              normalizeAddr(cfg.HTTP.Addr),
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// normalizeAddr accepts a bare port as set by PORT on most platforms
func normalizeAddr(addr string) string {
	for _, c := range addr {
		if c < '0' || c > '9' {
			return addr
		}
	}
	return ":" + addr
}
