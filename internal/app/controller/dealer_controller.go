package controller

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/dealer-admin-backend/internal/app/model"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/dealer-admin-backend/internal/errors"
	"github.com/ikkim/dealer-admin-backend/internal/middleware"
	"github.com/ikkim/dealer-admin-backend/internal/sheet"
	"github.com/ikkim/dealer-admin-backend/internal/storage"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportSize   = 5 << 20
)

var importContentTypes = []string{xlsxContentType, "application/octet-stream"}

type DealerController struct {
	dealerService   service.DealerService
	defaultPageSize int
}

func NewDealerController(dealerService service.DealerService, defaultPageSize int) *DealerController {
	if defaultPageSize < 1 {
		defaultPageSize = service.DefaultPageSize
	}
	return &DealerController{
		dealerService:   dealerService,
		defaultPageSize: defaultPageSize,
	}
}

// listState reads search, page and page_size from the query string.
// It writes the error response itself and returns false on bad input.
func (ctrl *DealerController) listState(c *gin.Context) (service.ListState, bool) {
	state := service.ListState{
		Search:   c.Query("search"),
		Page:     1,
		PageSize: ctrl.defaultPageSize,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "page must be a positive integer")
			return state, false
		}
		state.Page = page
	}

	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > service.MaxPageSize {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange,
				fmt.Sprintf("page_size must be between 1 and %d", service.MaxPageSize))
			return state, false
		}
		state.PageSize = size
	}

	return state, true
}

func parseDealerID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid dealer ID", map[string]interface{}{
			"dealer_id": idStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid dealer ID")
		return 0, false
	}
	return id, true
}

func (ctrl *DealerController) ListDealers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	state, ok := ctrl.listState(c)
	if !ok {
		return
	}

	view, err := ctrl.dealerService.ListDealers(c.Request.Context(), state)
	if err != nil {
		log.Error("Failed to list dealers", err, nil)
		apperrors.RespondWithDomainError(c, err, "list dealers")
		return
	}

	log.Info("Dealers listed", map[string]interface{}{
		"rows":        len(view.Rows),
		"total_count": view.TotalCount,
		"page":        view.Page,
	})

	c.JSON(http.StatusOK, view)
}

func (ctrl *DealerController) GetDealer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseDealerID(c)
	if !ok {
		return
	}

	dealer, err := ctrl.dealerService.GetDealer(c.Request.Context(), id)
	if err != nil {
		apperrors.RespondWithDomainError(c, err, "get dealer")
		return
	}

	log.Info("Dealer fetched", map[string]interface{}{
		"dealer_id": dealer.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"dealer": dealer,
	})
}

func (ctrl *DealerController) CreateDealer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	state, ok := ctrl.listState(c)
	if !ok {
		return
	}

	var req model.DealerFormValues
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid dealer creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid request data")
		return
	}

	result, err := ctrl.dealerService.CreateDealer(c.Request.Context(), req)
	if err != nil {
		apperrors.RespondWithDomainError(c, err, "create dealer")
		return
	}

	view, _ := service.RefreshView(result.Dealers, state)

	log.Info("Dealer created", map[string]interface{}{
		"dealer_id": result.Dealer.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": service.MsgDealerCreated,
		"dealer":  result.Dealer,
		"view":    view,
	})
}

func (ctrl *DealerController) UpdateDealer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseDealerID(c)
	if !ok {
		return
	}
	state, ok := ctrl.listState(c)
	if !ok {
		return
	}

	var req model.DealerFormValues
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid dealer update request", map[string]interface{}{
			"dealer_id": id,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid request data")
		return
	}

	result, err := ctrl.dealerService.UpdateDealer(c.Request.Context(), id, req)
	if err != nil {
		apperrors.RespondWithDomainError(c, err, "update dealer")
		return
	}

	view, _ := service.RefreshView(result.Dealers, state)

	log.Info("Dealer updated", map[string]interface{}{
		"dealer_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": service.MsgDealerUpdated,
		"dealer":  result.Dealer,
		"view":    view,
	})
}

// DeleteDealer is idempotent: deleting an unknown id returns 200 with
// deleted=false. The returned view is settled for the caller's page.
func (ctrl *DealerController) DeleteDealer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseDealerID(c)
	if !ok {
		return
	}
	state, ok := ctrl.listState(c)
	if !ok {
		return
	}

	result, err := ctrl.dealerService.DeleteDealer(c.Request.Context(), id)
	if err != nil {
		apperrors.RespondWithDomainError(c, err, "delete dealer")
		return
	}

	view, _ := service.RefreshView(result.Dealers, state)
	deleted := result.Dealer != nil

	log.Info("Dealer delete handled", map[string]interface{}{
		"dealer_id": id,
		"deleted":   deleted,
		"page":      view.Page,
	})

	message := service.MsgDealerDeleted
	if !deleted {
		message = service.MsgDealerMissing
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"deleted": deleted,
		"view":    view,
	})
}

func (ctrl *DealerController) ExportDealers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	dealers, err := ctrl.dealerService.LoadDealers(c.Request.Context())
	if err != nil {
		apperrors.RespondWithDomainError(c, err, "export dealers")
		return
	}
	dealers = service.FilterDealers(dealers, c.Query("search"))

	var buf bytes.Buffer
	if err := sheet.WriteDealers(&buf, dealers); err != nil {
		log.Error("Failed to build dealer workbook", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	filename := fmt.Sprintf("dealers-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())

	log.Info("Dealers exported", map[string]interface{}{
		"count": len(dealers),
	})
}

func (ctrl *DealerController) ImportDealers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	file, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "file is required")
		return
	}
	if err := storage.ValidateFileSize(file.Size, maxImportSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		return
	}
	if ct := file.Header.Get("Content-Type"); ct != "" {
		if err := storage.ValidateContentType(ct, importContentTypes); err != nil {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
			return
		}
	}

	f, err := file.Open()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}
	defer f.Close()

	forms, err := sheet.ReadDealerForms(io.LimitReader(f, maxImportSize))
	if err != nil {
		log.Warn("Unreadable dealer workbook", map[string]interface{}{
			"filename": file.Filename,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		return
	}

	result, err := ctrl.dealerService.ImportDealers(c.Request.Context(), forms)
	if err != nil {
		apperrors.RespondWithDomainError(c, err, "import dealers")
		return
	}

	log.Info("Dealers imported", map[string]interface{}{
		"filename": file.Filename,
		"created":  len(result.Created),
		"rejected": len(result.Rejected),
	})

	c.JSON(http.StatusOK, gin.H{
		"created":  len(result.Created),
		"dealers":  result.Created,
		"rejected": result.Rejected,
	})
}
