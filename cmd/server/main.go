package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/giftcircle/internal/aggregate"
	"github.com/mmynk/giftcircle/internal/auth"
	"github.com/mmynk/giftcircle/internal/config"
	"github.com/mmynk/giftcircle/internal/lock"
	"github.com/mmynk/giftcircle/internal/metrics"
	"github.com/mmynk/giftcircle/internal/middleware"
	"github.com/mmynk/giftcircle/internal/service"
	"github.com/mmynk/giftcircle/internal/storage"
	"github.com/mmynk/giftcircle/internal/storage/sqlite"
	"github.com/mmynk/giftcircle/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logging is not configured yet.
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logging.SetupWith(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	locker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocker()

	m := metrics.New()
	facade := aggregate.New(store,
		aggregate.WithTimeout(cfg.StoreTimeout),
		aggregate.WithMaxRetries(cfg.StoreMaxRetries),
		aggregate.WithLocker(locker),
		aggregate.WithRetryNotify(m.StoreRetry),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx, time.Minute)

	// Metrics see every outcome, auth runs before the per-viewer limiter,
	// and logging records the viewer.
	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		authInterceptor(cfg),
		limiter.Interceptor(),
		middleware.LoggingInterceptor(),
		middleware.ValidationInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(service.NewCircleServiceHandler(service.NewCircleService(facade), interceptors))
	mux.Handle(service.NewEventServiceHandler(service.NewEventService(facade), interceptors))
	mux.Handle(service.NewWishlistServiceHandler(service.NewWishlistService(facade, m), interceptors))
	mux.Handle(service.NewUserServiceHandler(service.NewUserService(facade), interceptors))
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", healthz(store, cfg.StoreTimeout))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr(), "url", fmt.Sprintf("http://localhost%s", cfg.Addr()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newLocker returns the per-item lock named by LOCK_BACKEND and a func that
// releases its resources.
func newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, func(), error) {
	if cfg.LockBackend != config.LockRedis {
		return lock.NewKeyedMutex(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	slog.Info("Redis lock enabled", "addr", cfg.RedisAddr, "ttl", cfg.LockTTL)
	return lock.NewRedisLocker(rdb, "giftcircle:lock:", cfg.LockTTL), func() { _ = rdb.Close() }, nil
}

func authInterceptor(cfg *config.Config) connect.UnaryInterceptorFunc {
	if cfg.AuthDisabled {
		slog.Warn("Authentication disabled, trusting the " + middleware.DevUserHeader + " header")
		return middleware.TrustHeader()
	}
	// Tokens are minted by the identity provider; the duration only matters
	// for Generate.
	return middleware.RequireAuth(auth.NewJWTManager(cfg.JWTSecret, 0))
}

func healthz(store storage.Store, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.DevUserHeader+", Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
