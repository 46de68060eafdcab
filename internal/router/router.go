package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	mem "goldendogfarm-admin/internal/adapters/storage/memory"
	pg "goldendogfarm-admin/internal/adapters/storage/postgres"
	"goldendogfarm-admin/internal/domain/records"
	"goldendogfarm-admin/internal/middleware"
	"goldendogfarm-admin/internal/platform/logger"
	"goldendogfarm-admin/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Admin es el usuario que se crea al arrancar si no existe.
type Admin struct {
	Name     string
	Email    string
	Password string
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer
	Logger       logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
	// Repo pisa a DB (tests).
	Repo records.Repository

	Admin *Admin

	// ReceiptFont es un TTF para los recibos PDF (nil = DejaVu embebido).
	ReceiptFont []byte
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	repo := opts.Repo
	switch {
	case repo != nil:
	case opts.DB != nil:
		repo = pg.NewRecordsRepo(opts.DB)
	default:
		repo = mem.NewRecordsRepo()
	}

	svc := records.NewService(repo, records.DefaultTable(), log)
	if err := svc.SetReceiptFont(opts.ReceiptFont); err != nil {
		return nil, err
	}
	if a := opts.Admin; a != nil && a.Email != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := svc.SeedAdmin(ctx, a.Name, a.Email, a.Password); err != nil {
			return nil, err
		}
	}

	records.RegisterRoutes(r, svc, opts.TokenIssuer)
	return r, nil
}
