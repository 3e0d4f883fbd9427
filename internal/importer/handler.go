package importer

import (
	"log/slog"
	"net/http"

	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/transport"
	"github.com/lihess/lihess-backend/pkg/logger"
)

const maxUploadSize = 10 << 20 // 10 MiB

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(service *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ImportStaff accepts a multipart upload with the workbook under "file".
func (h *Handler) ImportStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	result, err := h.Service.ImportWorkbook(r.Context(), actor.UserID, file)
	if err != nil {
		h.Logger.Error("ImportStaff: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
