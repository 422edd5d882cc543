package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"invparser/internal/service"
)

// InvoiceHandler handles invoice extraction and retrieval endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Extract handles POST /extract. It accepts a multipart PDF upload, runs
// extraction, persists the result, and returns the extraction payload
// (confidence, data, dataConfidence, predictionTime) directly; data embeds
// the saved invoice with its items.
func (h *InvoiceHandler) Extract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not open uploaded file")
		return
	}
	defer func() { _ = file.Close() }()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	result, err := h.invoiceService.ExtractAndSave(c.Request.Context(), &service.ExtractAndSaveInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		FileBytes:   fileBytes,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetByID handles GET /invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	inv, err := h.invoiceService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// ListByVendor handles GET /invoices/vendor/:vendor
func (h *InvoiceHandler) ListByVendor(c *gin.Context) {
	summary, err := h.invoiceService.ListByVendor(c.Request.Context(), c.Param("vendor"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}

// ExportVendorReport handles GET /invoices/vendor/:vendor/export
func (h *InvoiceHandler) ExportVendorReport(c *gin.Context) {
	vendor := c.Param("vendor")
	report, err := h.invoiceService.ExportVendorReport(c.Request.Context(), vendor)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", vendor)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoiceService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": c.Param("id")})
}
