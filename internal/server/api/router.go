// Package api serves the REST surface the gatherly client syncs against:
// PostgREST-style table endpoints, object storage, password sign-in and
// public invitation links.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/logging"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/tables"
	"github.com/dmitrijs2005/gatherly/internal/server/services"
	"github.com/dmitrijs2005/gatherly/internal/server/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Accounts signs users up and in and resolves access tokens.
type Accounts interface {
	Register(ctx context.Context, email, password string) (*services.Token, error)
	Login(ctx context.Context, email, password string) (*services.Token, error)
	Authenticate(token string) (string, error)
}

// Records runs table operations on behalf of an account.
type Records interface {
	List(ctx context.Context, account, table string, q tables.Query) ([]json.RawMessage, error)
	Insert(ctx context.Context, account, table string, row tables.Row, upsert bool) (json.RawMessage, error)
	Update(ctx context.Context, account, table, id string, row tables.Row) ([]json.RawMessage, error)
	Delete(ctx context.Context, account, table, id string) ([]json.RawMessage, error)
	Invitation(ctx context.Context, shareToken string) (json.RawMessage, error)
	Respond(ctx context.Context, shareToken string, r tables.Response) (json.RawMessage, error)
}

// Blobs stores uploaded objects.
type Blobs interface {
	Put(ctx context.Context, bucket, name string, data []byte, contentType string) error
	Get(ctx context.Context, bucket, name string) (*storage.Object, error)
	Delete(ctx context.Context, bucket, name string) error
}

// MaxUploadBytes caps a single storage upload.
const MaxUploadBytes = 10 << 20

const maxPayloadBytes = 1 << 20

type Handler struct {
	accounts Accounts
	records  Records
	blobs    Blobs
	logger   logging.Logger
}

func NewHandler(a Accounts, r Records, b Blobs, l logging.Logger) *Handler {
	return &Handler{accounts: a, records: r, blobs: b, logger: l.With("module", "api")}
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/signup", h.signUp)
		r.Post("/token", h.token)
	})

	r.Route("/rest/v1", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/{table}", h.listRows)
		r.Post("/{table}", h.insertRows)
		r.Patch("/{table}", h.updateRows)
		r.Delete("/{table}", h.deleteRows)
	})

	r.Route("/storage/v1/object", func(r chi.Router) {
		r.Get("/public/{bucket}/{name}", h.getObject)
		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Post("/{bucket}/{name}", h.putObject)
			r.Put("/{bucket}/{name}", h.putObject)
			r.Delete("/{bucket}/{name}", h.deleteObject)
		})
	})

	r.Get("/i/{token}", h.showInvitation)
	r.Post("/i/{token}", h.respondInvitation)

	return r
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		r = r.WithContext(logging.ContextWith(r.Context(), "request_id", middleware.GetReqID(r.Context())))
		next.ServeHTTP(ww, r)
		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
