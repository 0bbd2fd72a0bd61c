package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/cargohub/authcore/internal/store/postgres"
	"github.com/cargohub/authcore/modules/account"
	"github.com/cargohub/authcore/pkg/clientip"
	"github.com/cargohub/authcore/pkg/config"
	"github.com/cargohub/authcore/pkg/cookie"
	"github.com/cargohub/authcore/pkg/email"
	"github.com/cargohub/authcore/pkg/hasher"
	"github.com/cargohub/authcore/pkg/httpserver"
	"github.com/cargohub/authcore/pkg/logger"
	"github.com/cargohub/authcore/pkg/otp"
	"github.com/cargohub/authcore/pkg/pg"
	"github.com/cargohub/authcore/pkg/ratelimiter"
	"github.com/cargohub/authcore/pkg/recovery"
	"github.com/cargohub/authcore/pkg/redis"
	"github.com/cargohub/authcore/pkg/requestid"
	"github.com/cargohub/authcore/pkg/token"
	"github.com/cargohub/authcore/svc/auth"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"authd"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app appConfig
	config.MustLoad(&app)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Service),
		logger.WithContextExtractors(requestid.LogExtractor(), clientip.LogExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, log); err != nil {
		log.Error("authd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		pgCfg      pg.Config
		redisCfg   redis.Config
		hashCfg    hasher.Config
		tokenCfg   token.Config
		emailCfg   email.Config
		otpCfg     otp.Config
		recCfg     recovery.Config
		authCfg    auth.Config
		limitCfg   ratelimiter.Config
		cookieCfg  cookie.Config
		ipCfg      clientip.Config
		accountCfg account.Config
		serverCfg  httpserver.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&hashCfg) },
		func() error { return config.Load(&tokenCfg) },
		func() error { return config.Load(&emailCfg) },
		func() error { return config.Load(&otpCfg) },
		func() error { return config.Load(&recCfg) },
		func() error { return config.Load(&authCfg) },
		func() error { return config.Load(&limitCfg) },
		func() error { return config.Load(&cookieCfg) },
		func() error { return config.Load(&ipCfg) },
		func() error { return config.Load(&accountCfg) },
		func() error { return config.Load(&serverCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, postgres.Migrations, pgCfg, log); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	h, err := hasher.New(hashCfg)
	if err != nil {
		return err
	}
	pending, err := token.NewPendingCodec(tokenCfg)
	if err != nil {
		return err
	}
	sessions, err := token.NewSessionCodec(tokenCfg)
	if err != nil {
		return err
	}
	if tokenCfg.PendingTTL != otpCfg.TTL {
		log.Warn("pending token and code lifetimes differ",
			slog.Duration("pending_ttl", tokenCfg.PendingTTL),
			slog.Duration("code_ttl", otpCfg.TTL),
		)
	}

	sender, err := email.NewSender(emailCfg)
	if err != nil {
		return err
	}

	persons := postgres.NewPersonStore(pool)
	codes := otp.NewEngine(postgres.NewCodeStore(pool), h, sender,
		otp.WithConfig(otpCfg),
		otp.WithLogger(log),
	)
	resets := recovery.NewEngine(postgres.NewRecoveryStore(pool), h,
		recovery.WithTTL(recCfg.TTL),
		recovery.WithLogger(log),
	)

	login := auth.NewLoginService(persons, h, codes, pending, sessions, auth.WithLoginLogger(log))
	rec, err := auth.NewRecoveryService(persons, h, resets, sender, authCfg.ResetURL,
		auth.WithMinPasswordLength(authCfg.MinPasswordLength),
		auth.WithTokenTTL(recCfg.TTL),
		auth.WithRecoveryLogger(log),
	)
	if err != nil {
		return err
	}

	limiter, closeLimiter, err := newLimiter(limitCfg, rdb)
	if err != nil {
		return err
	}
	defer closeLimiter()

	resolver, err := clientip.NewResolver(ipCfg)
	if err != nil {
		return err
	}

	accounts := account.New(accountCfg, login, rec, cookie.NewFromConfig(cookieCfg),
		account.WithLogger(log),
		account.WithRateLimiter(limiter),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware, resolver.Middleware)
	r.Get("/healthz", httpserver.HealthCheckHandler(log, nil))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, map[string]httpserver.Check{
		"postgres": pg.Healthcheck(pool),
		"redis":    redis.Healthcheck(rdb),
	}))
	r.Mount("/", accounts.Router())

	srv := httpserver.New(serverCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newLimiter(cfg ratelimiter.Config, rdb goredis.UniversalClient) (ratelimiter.Limiter, func(), error) {
	var (
		store ratelimiter.Store
		done  = func() {}
	)
	switch cfg.Backend {
	case "redis":
		store = ratelimiter.NewRedisStore(rdb)
	case "memory", "":
		ms := ratelimiter.NewMemoryStore()
		store, done = ms, ms.Close
	default:
		return nil, nil, fmt.Errorf("unknown rate limit backend %q", cfg.Backend)
	}

	bucket, err := ratelimiter.NewBucket(store, cfg)
	if err != nil {
		done()
		return nil, nil, err
	}
	return bucket, done, nil
}
