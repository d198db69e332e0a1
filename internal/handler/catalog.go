package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crownvoyages/backoffice/internal/config"
	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/service"
)

// CatalogHandler exposes resort and room management, including image
// uploads and availability calendars.
type CatalogHandler struct {
	svc     *service.CatalogService
	uploads config.UploadConfig
}

func NewCatalogHandler(svc *service.CatalogService, uploads config.UploadConfig) *CatalogHandler {
	return &CatalogHandler{svc: svc, uploads: uploads}
}

// CreateResort handles POST /resorts
func (h *CatalogHandler) CreateResort(w http.ResponseWriter, r *http.Request) {
	var req model.CreateResortRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resort, err := h.svc.CreateResort(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resort)
}

// UpdateResort handles PUT /resorts/{id}
func (h *CatalogHandler) UpdateResort(w http.ResponseWriter, r *http.Request) {
	var req model.CreateResortRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	resort, err := h.svc.UpdateResort(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resort)
}

// ListResorts handles GET /resorts
func (h *CatalogHandler) ListResorts(w http.ResponseWriter, r *http.Request) {
	resorts, err := h.svc.ListResorts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list resorts")
		return
	}
	if resorts == nil {
		resorts = []model.Resort{}
	}
	writeJSON(w, http.StatusOK, resorts)
}

// GetResort handles GET /resorts/{id}
func (h *CatalogHandler) GetResort(w http.ResponseWriter, r *http.Request) {
	resort, err := h.svc.GetResort(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resort)
}

// DeleteResort handles DELETE /resorts/{id}
func (h *CatalogHandler) DeleteResort(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteResort(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateRoom handles POST /rooms
func (h *CatalogHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	room, err := h.svc.CreateRoom(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// UpdateRoom handles PUT /rooms/{id}
func (h *CatalogHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	room, err := h.svc.UpdateRoom(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// ListRooms handles GET /resorts/{id}/rooms
func (h *CatalogHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListRooms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	writeJSON(w, http.StatusOK, rooms)
}

// GetRoom handles GET /rooms/{id}
func (h *CatalogHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.svc.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// DeleteRoom handles DELETE /rooms/{id}
func (h *CatalogHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetAvailability handles PUT /rooms/{id}/availability
func (h *CatalogHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req model.AvailabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	entry, err := h.svc.SetAvailability(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ListAvailability handles GET /rooms/{id}/availability?from=…&to=…
func (h *CatalogHandler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListAvailability(r.Context(), chi.URLParam(r, "id"),
		r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.AvailabilityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Upload handles POST /uploads (multipart/form-data, field "file").
// The stored file gets a generated name; the returned path is served
// statically under /uploads/.
func (h *CatalogHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		writeError(w, http.StatusBadRequest, "unsupported file type")
		return
	}

	if err := os.MkdirAll(h.uploads.Dir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "upload storage unavailable")
		return
	}
	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.uploads.Dir, name))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "upload storage unavailable")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"path": fmt.Sprintf("/uploads/%s", name),
	})
}
