package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jwtauth "goldendogfarm-admin/internal/adapters/auth/jwt"
	pg "goldendogfarm-admin/internal/adapters/storage/postgres"
	"goldendogfarm-admin/internal/platform/config"
	"goldendogfarm-admin/internal/platform/logger"
	"goldendogfarm-admin/internal/router"
)

func main() {
	config.LoadEnvFiles()
	log := logger.NewFromEnv()

	addr := ":3030"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
		log.Warn("JWT_SECRET not set, using the development secret", nil)
	}
	verifier := jwtauth.NewVerifier(secret, jwtauth.DefaultTTL)

	var db *sql.DB
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		opened, err := pg.Open(dsn)
		if err != nil {
			log.Error("open database", map[string]any{"err": err})
			os.Exit(1)
		}
		defer opened.Close()
		if err := pg.Migrate(context.Background(), opened); err != nil {
			log.Error("migrate database", map[string]any{"err": err})
			os.Exit(1)
		}
		db = opened
	}

	var admin *router.Admin
	if email := os.Getenv("SEED_ADMIN_EMAIL"); email != "" {
		admin = &router.Admin{Name: "admin", Email: email, Password: os.Getenv("SEED_ADMIN_PASSWORD")}
	}

	var font []byte
	if path := os.Getenv("RECEIPT_FONT"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Error("read receipt font", map[string]any{"path": path, "err": err})
			os.Exit(1)
		}
		font = b
	}

	h, err := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		TokenIssuer:  verifier,
		Logger:       log,
		DB:           db,
		Admin:        admin,
		ReceiptFont:  font,
	})
	if err != nil {
		log.Error("build router", map[string]any{"err": err})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info("starting server", map[string]any{"addr": addr, "postgres": db != nil})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"err": err})
		os.Exit(1)
	}
}
