package http

import (
	"errors"
	"net/http"

	"appealbot/internal/entities"
	"appealbot/internal/interfaces"
	"appealbot/internal/repository"

	"github.com/gin-gonic/gin"
)

// AppealAdmin is the mutating side of the lifecycle manager exposed to the
// review API. Senders drive PENDING and ESCALATED through chat; operators
// drive UNDER_REVIEW, APPROVED, REJECTED and CLOSED through here.
type AppealAdmin interface {
	UpdateStatus(appealID string, status entities.AppealStatus, note string) error
	Escalate(appealID, reason string) error
	Close(appealID, resolution string) error
}

type AdminHandler struct {
	manager AppealAdmin
	reader  interfaces.AppealReader
}

func NewAdminHandler(manager AppealAdmin, reader interfaces.AppealReader) *AdminHandler {
	return &AdminHandler{
		manager: manager,
		reader:  reader,
	}
}

// ListAppeals returns all appeals, or one sender's appeals when ?sender= is given
func (h *AdminHandler) ListAppeals(c *gin.Context) {
	if sender := c.Query("sender"); sender != "" {
		c.JSON(http.StatusOK, gin.H{"appeals": h.reader.ListForSender(sender)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appeals": h.reader.All()})
}

func (h *AdminHandler) GetAppeal(c *gin.Context) {
	appeal, ok := h.reader.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appeal not found"})
		return
	}
	c.JSON(http.StatusOK, appeal)
}

// GetStats returns per-status appeal counts
func (h *AdminHandler) GetStats(c *gin.Context) {
	counts := map[entities.AppealStatus]int{}
	appeals := h.reader.All()
	for _, appeal := range appeals {
		counts[appeal.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"total_appeals": len(appeals),
		"by_status":     counts,
	})
}

// UpdateStatus moves an appeal through the review lifecycle
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status := entities.AppealStatus(req.Status)
	if !entities.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	if err := h.manager.UpdateStatus(c.Param("id"), status, req.Note); err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *AdminHandler) EscalateAppeal(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Reason == "" {
		req.Reason = "Escalated by operator"
	}

	if err := h.manager.Escalate(c.Param("id"), req.Reason); err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "escalated"})
}

func (h *AdminHandler) CloseAppeal(c *gin.Context) {
	var req struct {
		Resolution string `json:"resolution"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.manager.Close(c.Param("id"), req.Resolution); err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

func respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrUnknownAppeal):
		c.JSON(http.StatusNotFound, gin.H{"error": "Appeal not found"})
	case errors.Is(err, repository.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Transition not allowed"})
	case errors.Is(err, repository.ErrEmptyResolution):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Resolution required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
