package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gatherly/internal/common"
)

type ctxKey string

const accountKey ctxKey = "account_id"

// authenticate requires a valid bearer token and stores its account id in
// the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			respondError(w, "authorization header required", http.StatusUnauthorized)
			return
		}

		account, err := h.accounts.Authenticate(strings.TrimSpace(token))
		if err != nil {
			h.respondErr(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountID returns the account stored by the auth middleware.
func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(accountKey).(string)
	return id
}
