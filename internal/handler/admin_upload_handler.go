package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/marketplace-catalog/internal/service"
)

// AdminUploadHandler handles CSV ingestion for curators.
type AdminUploadHandler struct {
	importService *service.ImportService
}

// NewAdminUploadHandler wires a handler backed by the import service.
func NewAdminUploadHandler(importService *service.ImportService) *AdminUploadHandler {
	return &AdminUploadHandler{importService: importService}
}

// UploadCSV handles POST /admin/upload-csv requests.
func (h *AdminUploadHandler) UploadCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	summary, err := h.importService.ImportListingsCSV(c.Request().Context(), file)
	if err != nil {
		var validationErr service.CSVValidationError
		switch {
		case errors.As(err, &validationErr):
			return Error(c, http.StatusBadRequest, validationErr.Error())
		case errors.Is(err, service.ErrStorageUnavailable):
			return Error(c, http.StatusServiceUnavailable, err.Error())
		default:
			return Error(c, http.StatusInternalServerError, "failed to process csv")
		}
	}

	return Success(c, http.StatusOK, "listings CSV processed", summary)
}
