package main

import (
    "context"
    "errors"
    "fmt"
    "log/slog"
    "net/http"
    "os"
    "os/signal"
    "strconv"
    "strings"
    "syscall"
    "time"

    "github.com/owhenrique/library/internal/errs"
    httpapi "github.com/owhenrique/library/internal/httpapi/v1"
    "github.com/owhenrique/library/internal/library"
    "github.com/owhenrique/library/internal/service/book"
    "github.com/owhenrique/library/internal/service/lending"
    "github.com/owhenrique/library/internal/service/user"
    "github.com/owhenrique/library/internal/storage/memory"
    pgstore "github.com/owhenrique/library/internal/storage/postgres"
)

func main() {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    // Logger (slog to stdout). Level via LOG_LEVEL; format via LOG_FORMAT (json|text, default json)
    logger := buildLoggerFromEnv()
    slog.SetDefault(logger)

    policy := policyFromEnv()
    if err := policy.Validate(); err != nil {
        logger.Error("invalid lending policy", "err", err)
        os.Exit(1)
    }
    auth := authFromEnv(logger)
    rl := rateLimitFromEnv()

    var store httpapi.Repository
    var closeFn func()

    if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
        pg, err := pgstore.Open(ctx, dsn)
        if err != nil {
            logger.Error("failed to connect to postgres", "err", err)
            os.Exit(1)
        }
        store = pg
        closeFn = pg.Close
        logger.Info("storage backend: postgres")
    } else {
        store = memory.New()
        logger.Info("storage backend: memory")
    }

    // Seed a dev admin and a small catalog for compose/local. Always on for
    // the in-memory backend, opt-in via DEV_SEED for Postgres.
    if _, usingMemory := store.(*memory.Store); usingMemory || envBool("DEV_SEED") {
        seedDev(ctx, store, logger)
    }

    srvMux := httpapi.New(store, policy, auth, rl, logger).Handler()

    addr := strings.TrimSpace(os.Getenv("ADDR"))
    if addr == "" {
        addr = ":8080"
    }
    srv := &http.Server{
        Addr:              addr,
        Handler:           srvMux,
        ReadTimeout:       5 * time.Second,
        ReadHeaderTimeout: 5 * time.Second,
        WriteTimeout:      10 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    errCh := make(chan error, 1)
    go func() {
        logger.Info("library service listening", "addr", srv.Addr)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            errCh <- err
        }
    }()

    select {
    case <-ctx.Done():
        ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        if err := srv.Shutdown(ctxShutdown); err != nil {
            logger.Error("server shutdown error", "err", err)
        }
    case err := <-errCh:
        logger.Error("server error", "err", err)
    }
    if closeFn != nil {
        closeFn()
    }
}

// seedDev creates a dev admin and a few titles. Safe to run repeatedly:
// records that already exist are left alone.
func seedDev(ctx context.Context, store httpapi.Repository, logger *slog.Logger) {
    usvc := user.New(store, store)
    bsvc := book.New(store, store)

    admin, err := usvc.Create(ctx, user.CreateInput{Name: "admin", Email: "admin@example.com", Password: "1234", Role: library.RoleAdmin})
    switch {
    case err == nil:
        logger.Info("DEV seed admin created", "user_id", admin.ID.String(), "email", admin.Email)
        printDevSeedBanner(admin)
    case errors.Is(err, errs.ErrEmailTaken):
        logger.Info("DEV seed admin already present")
    default:
        logger.Error("dev seed failed", "err", err)
        return
    }

    titles := []book.CreateInput{
        {Name: "The Pragmatic Programmer", Author: "Hunt and Thomas", Category: library.CategoryTech, TotalCopies: 3},
        {Name: "Dune", Author: "Frank Herbert", Category: library.CategoryFiction, TotalCopies: 2},
        {Name: "Sapiens", Author: "Yuval Noah Harari", Category: library.CategoryNonfiction, TotalCopies: 2},
    }
    for _, in := range titles {
        b, err := bsvc.Create(ctx, in)
        if err != nil {
            if !errors.Is(err, errs.ErrBookAlreadyExists) {
                logger.Error("dev seed book failed", "name", in.Name, "err", err)
            }
            continue
        }
        logger.Info("DEV seed book created", "book_id", b.ID.String(), "name", b.Name)
    }
}

// printDevSeedBanner prints the dev credentials to stdout for easy copy/paste
func printDevSeedBanner(admin library.User) {
    fmt.Println("==================== DEV SEED ====================")
    fmt.Printf("admin_user_id: %s\n", admin.ID.String())
    fmt.Printf("email: %s\n", admin.Email)
    fmt.Println("password: 1234")
    fmt.Println("==================================================")
}

func policyFromEnv() lending.Policy {
    p := lending.DefaultPolicy()
    if v := envInt("LENDING_DAYS"); v > 0 {
        p.LendingDays = v
    }
    if v := envInt("FINE_PER_DAY_MINOR"); v > 0 {
        p.FinePerDayMinor = int64(v)
    }
    if c := strings.TrimSpace(os.Getenv("FINE_CURRENCY")); c != "" {
        p.FineCurrency = strings.ToUpper(c)
    }
    if v := envInt("MAX_LENDINGS"); v > 0 {
        p.MaxLendings = v
    }
    return p
}

func rateLimitFromEnv() httpapi.RateLimitConfig {
    rl := httpapi.DefaultRateLimit()
    if v := envInt("RATE_LIMIT_RPM"); v != 0 {
        rl.RequestsPerMinute = v // negative disables throttling
    }
    if v := envInt("RATE_LIMIT_BURST"); v > 0 {
        rl.Burst = v
    }
    return rl
}

func authFromEnv(logger *slog.Logger) httpapi.AuthConfig {
    secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
    if secret == "" {
        secret = "dev-insecure-secret"
        logger.Warn("JWT_SECRET not set, using a dev-only signing secret")
    }
    cfg := httpapi.AuthConfig{Secret: secret}
    if v := envInt("TOKEN_TTL_MINUTES"); v > 0 {
        cfg.TokenTTL = time.Duration(v) * time.Minute
    }
    return cfg
}

func envInt(key string) int {
    raw := strings.TrimSpace(os.Getenv(key))
    if raw == "" {
        return 0
    }
    n, err := strconv.Atoi(raw)
    if err != nil {
        return 0
    }
    return n
}

func envBool(key string) bool {
    v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
    return v == "1" || v == "true" || v == "yes"
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
    switch s {
    case "DEBUG", "debug":
        return slog.LevelDebug
    case "WARN", "WARNING", "warn", "warning":
        return slog.LevelWarn
    case "ERROR", "ERR", "error", "err":
        return slog.LevelError
    default:
        return slog.LevelInfo
    }
}

func buildLoggerFromEnv() *slog.Logger {
    level := parseLogLevel(os.Getenv("LOG_LEVEL"))
    format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
    if format == "text" {
        return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
    }
    // default to JSON
    return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
