// Command server runs the StreamVault API: user accounts with JWT
// session management, tweets and channel subscriptions, backed by
// MongoDB, S3 media storage and optional redis login throttling.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/streamvault/streamvault/modules/auth"
	"github.com/streamvault/streamvault/modules/subscription"
	"github.com/streamvault/streamvault/modules/tweet"
	"github.com/streamvault/streamvault/modules/user"
	"github.com/streamvault/streamvault/pkg/config"
	"github.com/streamvault/streamvault/pkg/cookie"
	"github.com/streamvault/streamvault/pkg/httpserver"
	"github.com/streamvault/streamvault/pkg/httpx"
	"github.com/streamvault/streamvault/pkg/logger"
	"github.com/streamvault/streamvault/pkg/media"
	"github.com/streamvault/streamvault/pkg/mongo"
	"github.com/streamvault/streamvault/pkg/redis"
)

type appConfig struct {
	Logger logger.Config
	Server httpserver.Config
	Mongo  mongo.Config
	Redis  redis.Config
	Cookie cookie.Config
	Auth   auth.Config
	Media  media.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Logger)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	db, err := mongo.ConnectDatabase(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer db.Client().Disconnect(context.Background())

	users := user.NewRepository(db)
	tweets := tweet.NewRepository(db)
	subscriptions := subscription.NewRepository(db)
	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{users, tweets, subscriptions} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	var limiter auth.LoginLimiter = auth.NoopLimiter{}
	var redisClient *goredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		limiter = auth.NewRedisLoginLimiter(redisClient, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	} else {
		log.Warn("redis not configured, login rate limiting disabled")
	}

	uploader, err := media.NewS3Uploader(ctx, cfg.Media)
	if err != nil {
		return err
	}

	authSvc, err := auth.NewService(cfg.Auth, users, uploader, log)
	if err != nil {
		return err
	}
	cookies := cookie.New(cfg.Cookie)
	gate := auth.Middleware(authSvc, cookies)

	authHandler := auth.NewHandler(authSvc, cookies, limiter, cfg.Auth, log)
	tweetHandler := tweet.NewHandler(tweet.NewService(tweets, log), gate, log)
	subHandler := subscription.NewHandler(subscription.NewService(subscriptions, users, log), gate, log)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", authHandler.Router())
		r.Mount("/tweets", tweetHandler.Router())
		r.Mount("/subscriptions", subHandler.Router())
	})
	r.Get("/healthz", healthz(db, redisClient))

	return httpserver.New(cfg.Server, log).Run(ctx, r)
}

// healthz pings the backing stores. Redis is only checked when
// configured.
func healthz(db *mongodrv.Database, redisClient *goredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]func(context.Context) error{
			"mongo": mongo.Healthcheck(db.Client()),
		}
		if redisClient != nil {
			checks["redis"] = redis.Healthcheck(redisClient)
		}

		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				httpx.Fail(w, httpx.NewError(http.StatusServiceUnavailable, name+" is unavailable"))
				return
			}
		}
		httpx.JSON(w, http.StatusOK, nil, "ok")
	}
}
