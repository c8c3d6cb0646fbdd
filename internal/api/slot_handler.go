package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appmetrics "github.com/taoyao-code/xtstate/internal/metrics"
	"github.com/taoyao-code/xtstate/internal/xtstate"
)

// SlotHandler 槽位签到API处理器
type SlotHandler struct {
	state   *xtstate.Shared
	metrics *appmetrics.AppMetrics
	logger  *zap.Logger
}

// NewSlotHandler 创建槽位Handler，metrics 可为 nil
func NewSlotHandler(state *xtstate.Shared, m *appmetrics.AppMetrics, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{
		state:   state,
		metrics: m,
		logger:  logger,
	}
}

type setupRequest struct {
	Slots []string `json:"slots"`
	Force bool     `json:"force"`
}

type checkinRequest struct {
	Value *bool `json:"value"`
}

// Setup 注册槽位集合
// POST /api/v1/setup
func (h *SlotHandler) Setup(c *gin.Context) {
	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": err.Error()})
		return
	}

	if err := h.state.SetupSlots(req.Slots, req.Force); err != nil {
		if errors.Is(err, xtstate.ErrAlreadySetup) {
			c.JSON(http.StatusConflict, gin.H{"error": "already_setup", "detail": err.Error()})
			return
		}
		h.logger.Error("slot setup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "setup_failed", "detail": err.Error()})
		return
	}

	h.logger.Info("slots registered",
		zap.Int("count", len(req.Slots)),
		zap.Bool("force", req.Force),
	)
	c.JSON(http.StatusOK, gin.H{
		"setup": true,
		"count": len(req.Slots),
	})
}

// Checkin 单个槽位签到
// POST /api/v1/slots/:identifier
func (h *SlotHandler) Checkin(c *gin.Context) {
	identifier := c.Param("identifier")

	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": err.Error()})
		return
	}
	if req.Value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": "value is required"})
		return
	}

	if h.metrics != nil {
		h.metrics.CheckinTotal.Inc()
	}

	if err := h.state.UpdateCallback(identifier, *req.Value); err != nil {
		switch {
		case errors.Is(err, xtstate.ErrUnknownIdentifier):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown_identifier", "identifier": identifier})
		case errors.Is(err, xtstate.ErrNotSetup):
			c.JSON(http.StatusConflict, gin.H{"error": "not_setup"})
		case errors.Is(err, xtstate.ErrNoSlotsDefined):
			c.JSON(http.StatusConflict, gin.H{"error": "no_slots_defined"})
		default:
			h.logger.Error("slot update failed", zap.String("identifier", identifier), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_failed", "detail": err.Error()})
		}
		return
	}

	activated := h.state.Activated()
	h.logger.Info("slot checked in",
		zap.String("identifier", identifier),
		zap.Bool("value", *req.Value),
		zap.Bool("activated", activated),
	)
	c.JSON(http.StatusOK, gin.H{
		"identifier": identifier,
		"value":      *req.Value,
		"activated":  activated,
	})
}

// Snapshot 查询当前槽位表
// GET /api/v1/slots
func (h *SlotHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"setup":     h.state.IsSetup(),
		"activated": h.state.Activated(),
		"slots":     h.state.Slots(),
	})
}

// History 查询变更历史
// GET /api/v1/history
func (h *SlotHandler) History(c *gin.Context) {
	hist := h.state.History()
	c.JSON(http.StatusOK, gin.H{
		"count":   len(hist),
		"entries": hist,
	})
}

// Activated 查询激活状态
// GET /api/v1/activated
func (h *SlotHandler) Activated(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"activated": h.state.Activated(),
	})
}
