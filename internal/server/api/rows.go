package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gatherly/internal/common"
	"github.com/dmitrijs2005/gatherly/internal/server/repositories/tables"
	"github.com/go-chi/chi/v5"
)

// parseQuery reads PostgREST-style parameters: select=*, col=eq.value and
// order=col[.asc|.desc]. Other operators are rejected.
func parseQuery(v url.Values) (tables.Query, error) {
	var q tables.Query

	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := v.Get(k)
		switch k {
		case "select":
			if val != "*" {
				return q, fmt.Errorf("%w: only select=* is supported", common.ErrValidation)
			}
		case "order":
			col, dir, _ := strings.Cut(val, ".")
			switch dir {
			case "", "asc":
			case "desc":
				q.Desc = true
			default:
				return q, fmt.Errorf("%w: order direction %q", common.ErrValidation, dir)
			}
			q.Order = col
		default:
			value, ok := strings.CutPrefix(val, "eq.")
			if !ok {
				return q, fmt.Errorf("%w: only eq filters are supported (%s)", common.ErrValidation, k)
			}
			q.Filters = append(q.Filters, tables.Filter{Column: k, Value: value})
		}
	}
	return q, nil
}

// targetID extracts the id=eq.X filter that PATCH and DELETE require.
func targetID(v url.Values) (string, error) {
	q, err := parseQuery(v)
	if err != nil {
		return "", err
	}
	if len(q.Filters) != 1 || q.Filters[0].Column != "id" || q.Filters[0].Value == "" {
		return "", fmt.Errorf("%w: exactly one id=eq.<id> filter is required", common.ErrValidation)
	}
	return q.Filters[0].Value, nil
}

func preferences(r *http.Request) (upsert, representation bool) {
	for _, p := range strings.Split(r.Header.Get(common.PreferHeaderName), ",") {
		switch strings.TrimSpace(p) {
		case common.PreferMergeDuplicates:
			upsert = true
		case common.PreferReturnRepresentation:
			representation = true
		}
	}
	return upsert, representation
}

// readRow accepts a JSON object or a one-element array of objects.
func readRow(w http.ResponseWriter, r *http.Request) (tables.Row, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var rows []json.RawMessage
		if err := json.Unmarshal(body, &rows); err != nil || len(rows) != 1 {
			return nil, fmt.Errorf("%w: expected exactly one row", common.ErrValidation)
		}
		body = rows[0]
	}
	return tables.ParseRow(body)
}

// listRows handles GET /rest/v1/{table}.
func (h *Handler) listRows(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	rows, err := h.records.List(r.Context(), AccountID(r.Context()), chi.URLParam(r, "table"), q)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// insertRows handles POST /rest/v1/{table}.
func (h *Handler) insertRows(w http.ResponseWriter, r *http.Request) {
	row, err := readRow(w, r)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	upsert, representation := preferences(r)
	stored, err := h.records.Insert(r.Context(), AccountID(r.Context()), chi.URLParam(r, "table"), row, upsert)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	if !representation {
		w.WriteHeader(http.StatusCreated)
		return
	}
	writeJSON(w, http.StatusCreated, []json.RawMessage{stored})
}

// updateRows handles PATCH /rest/v1/{table}?id=eq.{id}.
func (h *Handler) updateRows(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r.URL.Query())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	row, err := readRow(w, r)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	rows, err := h.records.Update(r.Context(), AccountID(r.Context()), chi.URLParam(r, "table"), id, row)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.writeRows(w, r, rows)
}

// deleteRows handles DELETE /rest/v1/{table}?id=eq.{id}.
func (h *Handler) deleteRows(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r.URL.Query())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	rows, err := h.records.Delete(r.Context(), AccountID(r.Context()), chi.URLParam(r, "table"), id)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.writeRows(w, r, rows)
}

// writeRows answers PATCH and DELETE. Without return=representation the
// body is empty; with it an unmatched id yields an empty array, as PostgREST does.
func (h *Handler) writeRows(w http.ResponseWriter, r *http.Request, rows []json.RawMessage) {
	if _, representation := preferences(r); !representation {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if rows == nil {
		rows = []json.RawMessage{}
	}
	writeJSON(w, http.StatusOK, rows)
}
