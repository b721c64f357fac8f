package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
)

type NoticeController struct {
	notices *service.NoticeBoard
}

func NewNoticeController(notices *service.NoticeBoard) *NoticeController {
	return &NoticeController{notices: notices}
}

// GetNotice returns the live notice, or 204 once it has expired.
func (ctrl *NoticeController) GetNotice(c *gin.Context) {
	notice, ok := ctrl.notices.Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": notice})
}

func (ctrl *NoticeController) DismissNotice(c *gin.Context) {
	ctrl.notices.Dismiss()
	c.Status(http.StatusNoContent)
}
