package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dineout-frontend/internal/model"
	"dineout-frontend/internal/service"
	"dineout-frontend/internal/storage"
	"dineout-frontend/internal/utils"
	"dineout-frontend/internal/view"
	"dineout-frontend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	pageService *service.PageService
	heartbeat   time.Duration
}

func NewPageHandler(pageService *service.PageService, heartbeat time.Duration) *PageHandler {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &PageHandler{
		pageService: pageService,
		heartbeat:   heartbeat,
	}
}

// NewPage opens a fresh form and sends the browser to it.
func (h *PageHandler) NewPage(c *gin.Context) {
	page, err := h.pageService.CreatePage(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/pages/"+page.ID())
}

func (h *PageHandler) ShowPage(c *gin.Context) {
	page, err := h.pageService.GetPage(c.Param("page_id"))
	if err != nil {
		// expired pages start over
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "page", page.Snapshot())
}

// SubmitForm handles the form post, then redirects back to the page so a
// browser refresh does not resubmit.
func (h *PageHandler) SubmitForm(c *gin.Context) {
	pageID := c.Param("page_id")

	var in model.FormInput
	if err := c.ShouldBind(&in); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.pageService.Submit(c.Request.Context(), pageID, in); err != nil {
		if errors.Is(err, storage.ErrPageNotFound) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/pages/"+pageID)
}

// Events streams the page's results area: once on connect, then after every
// submission that resolves.
func (h *PageHandler) Events(c *gin.Context) {
	pageID := c.Param("page_id")

	page, err := h.pageService.GetPage(pageID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	updates, cancel, err := h.pageService.Subscribe(pageID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	defer cancel()

	sseWriter := utils.NewSSEWriter(c.Writer)
	c.Status(http.StatusOK)

	if err := writeResults(sseWriter, page.Snapshot().Results); err != nil {
		logger.Warnf("Failed to write SSE: %v", err)
		return
	}

	heartbeatTicker := time.NewTicker(h.heartbeat)
	defer heartbeatTicker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case area, ok := <-updates:
			if !ok {
				sseWriter.Close()
				return
			}
			if err := writeResults(sseWriter, area); err != nil {
				logger.Warnf("Failed to write SSE: %v", err)
				return
			}
		case <-heartbeatTicker.C:
			if err := sseWriter.Write("heartbeat", strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
				logger.Warnf("Heartbeat failed: %v", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func writeResults(w *utils.SSEWriter, area model.ResultsArea) error {
	html, err := view.RenderResults(area)
	if err != nil {
		return err
	}
	return w.Write("results", html)
}

func (h *PageHandler) CreatePageJSON(c *gin.Context) {
	page, err := h.pageService.CreatePage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, page.Snapshot())
}

func (h *PageHandler) GetPageJSON(c *gin.Context) {
	page, err := h.pageService.GetPage(c.Param("page_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page.Snapshot())
}

// SubmitJSON is the JSON twin of SubmitForm. Backend failures are part of
// the returned results area, so the status is 200 whenever the page exists.
func (h *PageHandler) SubmitJSON(c *gin.Context) {
	var in model.FormInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := h.pageService.Submit(c.Request.Context(), c.Param("page_id"), in)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, area)
}

func (h *PageHandler) DeletePage(c *gin.Context) {
	if err := h.pageService.DeletePage(c.Param("page_id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Page deleted successfully"})
}

func Stylesheet(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", view.Stylesheet)
}
