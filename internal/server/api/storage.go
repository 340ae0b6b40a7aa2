package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type objectResponse struct {
	Key string `json:"Key"`
}

// putObject handles POST and PUT /storage/v1/object/{bucket}/{name}.
func (h *Handler) putObject(w http.ResponseWriter, r *http.Request) {
	bucket, name := chi.URLParam(r, "bucket"), chi.URLParam(r, "name")

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	if len(data) == 0 {
		respondError(w, "empty upload", http.StatusBadRequest)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	if err := h.blobs.Put(r.Context(), bucket, name, data, contentType); err != nil {
		h.respondErr(w, r, err)
		return
	}

	h.logger.Debug(r.Context(), "object stored", "bucket", bucket, "name", name, "bytes", len(data))
	writeJSON(w, http.StatusOK, objectResponse{Key: bucket + "/" + name})
}

// getObject handles GET /storage/v1/object/public/{bucket}/{name}.
func (h *Handler) getObject(w http.ResponseWriter, r *http.Request) {
	obj, err := h.blobs.Get(r.Context(), chi.URLParam(r, "bucket"), chi.URLParam(r, "name"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	defer obj.Body.Close()

	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn(r.Context(), "object stream interrupted", "error", err)
	}
}

// deleteObject handles DELETE /storage/v1/object/{bucket}/{name}.
func (h *Handler) deleteObject(w http.ResponseWriter, r *http.Request) {
	bucket, name := chi.URLParam(r, "bucket"), chi.URLParam(r, "name")
	if err := h.blobs.Delete(r.Context(), bucket, name); err != nil {
		h.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objectResponse{Key: bucket + "/" + name})
}
