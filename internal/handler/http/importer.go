package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/folhaplus/folha-backend-go/internal/domain/importer"
	"github.com/folhaplus/folha-backend-go/internal/handler/http/response"
	"github.com/folhaplus/folha-backend-go/internal/pkg/spreadsheet"
)

type ImportHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
	Template(w http.ResponseWriter, r *http.Request)
	ListMappings(w http.ResponseWriter, r *http.Request)
	SaveMapping(w http.ResponseWriter, r *http.Request)
	DeleteMapping(w http.ResponseWriter, r *http.Request)
}

type ImportHandlerImpl struct {
	importService importer.Service
}

func NewImportHandler(importService importer.Service) ImportHandler {
	return &ImportHandlerImpl{importService: importService}
}

// Preview implements ImportHandler.
func (h *ImportHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Preview parse multipart error", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing 'file' upload", nil)
		return
	}
	defer file.Close()

	grid, err := spreadsheet.Decode(fileHeader.Filename, file)
	if err != nil {
		slog.Error("Preview decode error", "error", err, "filename", fileHeader.Filename)
		response.HandleError(w, err)
		return
	}

	skipMapping, _ := strconv.ParseBool(r.FormValue("skip_mapping"))
	previewReq := importer.PreviewRequest{
		Grid:        grid,
		Periodo:     r.FormValue("periodo"),
		SkipMapping: skipMapping,
	}

	result, err := h.importService.Preview(r.Context(), previewReq)
	if err != nil {
		slog.Error("Preview service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Confirm implements ImportHandler.
func (h *ImportHandlerImpl) Confirm(w http.ResponseWriter, r *http.Request) {
	var confirmReq importer.ConfirmRequest

	if err := json.NewDecoder(r.Body).Decode(&confirmReq); err != nil {
		slog.Error("Confirm decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	summary, err := h.importService.Confirm(r.Context(), confirmReq)
	if err != nil {
		slog.Error("Confirm service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Import confirmed", summary)
}

// Template implements ImportHandler.
func (h *ImportHandlerImpl) Template(w http.ResponseWriter, r *http.Request) {
	data, contentType, filename, err := h.importService.Template(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// ListMappings implements ImportHandler.
func (h *ImportHandlerImpl) ListMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.importService.ListMappings(r.Context())
	if err != nil {
		slog.Error("ListMappings service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, mappings)
}

// SaveMapping implements ImportHandler.
func (h *ImportHandlerImpl) SaveMapping(w http.ResponseWriter, r *http.Request) {
	var saveReq importer.SaveMappingRequest

	if err := json.NewDecoder(r.Body).Decode(&saveReq); err != nil {
		slog.Error("SaveMapping decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.importService.SaveMapping(r.Context(), saveReq)
	if err != nil {
		slog.Error("SaveMapping service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Mapping saved", created)
}

// DeleteMapping implements ImportHandler.
func (h *ImportHandlerImpl) DeleteMapping(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.importService.DeleteMapping(r.Context(), id); err != nil {
		slog.Error("DeleteMapping service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Mapping deleted", nil)
}
