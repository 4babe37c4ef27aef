// Package server exposes the plan builder over HTTP: a JSON projection API,
// workbook and document downloads, and the embedded upload form.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/plan-autofill/internal/config"
	"github.com/iwvelando/plan-autofill/internal/projection"
	"github.com/iwvelando/plan-autofill/internal/report"
	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/iwvelando/plan-autofill/pkg/output"
	"github.com/iwvelando/plan-autofill/pkg/validation"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	service       *report.Service
}

// NewHandler constructs the HTTP handler that serves the web UI and plan API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, service *report.Service) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if service == nil {
		service = report.NewService(logger, projection.NewEngine(logger, config.DefaultPolicy()), nil)
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, service: service}

	mux := http.NewServeMux()

	// Projection API endpoint (file upload)
	mux.HandleFunc("/api/projection", h.handleProjection)

	// Downloads
	mux.HandleFunc("/api/export/xlsx", h.handleWorkbookExport)
	mux.HandleFunc("/api/export/document", h.handleDocumentExport)

	// Starting input for the form
	mux.HandleFunc("/api/template", h.handleTemplate)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return h.withRequestID(mux)
}

// withRequestID echoes the caller's request ID or assigns a new one.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(RequestIDHeader, requestID)
		}
		w.Header().Set(RequestIDHeader, requestID)

		h.logger.Debug("request received",
			zap.String("op", "server.withRequestID"),
			zap.String("requestId", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

type projectionResponse struct {
	Tables     []projection.Table `json:"tables"`
	Narratives config.Narratives  `json:"narratives"`
	Warnings   []string           `json:"warnings,omitempty"`
	CSV        string             `json:"csv"`
	Duration   string             `json:"duration"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	built, ok := h.buildFromUpload(w, r, op)
	if !ok {
		return
	}

	tables := built.Tables()
	csvData, err := output.CsvString(tables)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.String("requestId", r.Header.Get(RequestIDHeader)),
		zap.Int("tables", len(tables)),
		zap.Int("warnings", len(built.Warnings)),
		zap.Duration("duration", built.Duration),
	)

	h.writeJSON(w, http.StatusOK, projectionResponse{
		Tables:     tables,
		Narratives: built.Narratives,
		Warnings:   built.Warnings,
		CSV:        csvData,
		Duration:   built.Duration.String(),
	})
}

func (h *handler) handleWorkbookExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleWorkbookExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	built, ok := h.buildFromUpload(w, r, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := output.WriteWorkbook(&buf, built.Tables()); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	h.writeAttachment(w, output.SpreadsheetContentType, constants.DefaultWorkbookName, buf.Bytes(), op)
}

func (h *handler) handleDocumentExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDocumentExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	built, ok := h.buildFromUpload(w, r, op)
	if !ok {
		return
	}

	documentFormat := strings.TrimSpace(r.FormValue("format"))
	if documentFormat == "" {
		documentFormat = constants.DocumentFormatHTML
	}
	if err := validation.ValidateDocumentFormat(documentFormat); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := built.Document().Write(&buf, documentFormat); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	filename := "plan.html"
	if documentFormat == constants.DocumentFormatMarkdown {
		filename = "plan.md"
	}
	h.writeAttachment(w, output.DocumentContentType(documentFormat), filename, buf.Bytes(), op)
}

func (h *handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleTemplate"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	data, err := config.MarshalInput(config.SampleInput())
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to encode template: %v", err), op)
		return
	}

	h.writeAttachment(w, "application/yaml", "input.yaml", data, op)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// buildFromUpload reads the uploaded input file and builds the plan. It
// writes the error response itself and reports false on failure.
func (h *handler) buildFromUpload(w http.ResponseWriter, r *http.Request, op string) (report.Report, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return report.Report{}, false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return report.Report{}, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing input file", op)
		return report.Report{}, false
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	in, err := config.LoadInputFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return report.Report{}, false
	}

	opts := report.Options{Narrative: coerceBool(r.FormValue("narrative"))}
	return h.service.Build(r.Context(), *in, opts), true
}

func (h *handler) writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte, op string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write attachment",
			zap.String("op", op),
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("plan request failed",
		zap.String("op", op),
		zap.String("requestId", r.Header.Get(RequestIDHeader)),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func coerceBool(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}
