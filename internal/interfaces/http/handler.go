package http

import (
	"net/http"
	"time"

	"appealbot/internal/entities"
	"appealbot/internal/infrastructure"
	"appealbot/internal/interfaces"
	"appealbot/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	engine   interfaces.MessageProcessor
	appeals  interfaces.AppealReader
	composer *usecases.ResponseComposer
	limiter  *infrastructure.MessageRateLimiter
}

func NewHandler(engine interfaces.MessageProcessor, appeals interfaces.AppealReader, composer *usecases.ResponseComposer, limiter *infrastructure.MessageRateLimiter) *Handler {
	return &Handler{
		engine:   engine,
		appeals:  appeals,
		composer: composer,
		limiter:  limiter,
	}
}

func SetupRoutes(r *gin.Engine, engine interfaces.MessageProcessor, appealManager AppealAdmin, appeals interfaces.AppealReader, composer *usecases.ResponseComposer, limiter *infrastructure.MessageRateLimiter, auth *usecases.AuthUsecase, middleware *Middleware) {
	h := NewHandler(engine, appeals, composer, limiter)

	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20)) // 1MB max request size
	r.Use(middleware.CORSMiddleware())

	// Public Routes
	r.POST("/webhook/message", h.HandleInboundMessage)

	// Admin surface only works with a Postgres-backed user store.
	if auth == nil || appealManager == nil {
		return
	}

	// Public Auth Routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", func(c *gin.Context) {
			var loginReq struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&loginReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			token, err := auth.Login(loginReq.Username, loginReq.Password)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})

		authGroup.POST("/register", func(c *gin.Context) {
			var regReq struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&regReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			// Validate inputs
			if !ValidSlug(regReq.Username) || len(regReq.Password) < 6 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password (min 6 chars)"})
				return
			}
			if err := auth.Register(regReq.Username, regReq.Password); err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "registered"})
		})
	}

	// Protected review routes
	adminHandler := NewAdminHandler(appealManager, appeals)
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.GET("/appeals", adminHandler.ListAppeals)
		api.GET("/appeals/:id", adminHandler.GetAppeal)
		api.GET("/stats", adminHandler.GetStats)
	}

	// Mutating review routes are admin-only
	admin := r.Group("/api")
	admin.Use(middleware.AuthRequired())
	admin.Use(middleware.AdminRequired())
	{
		admin.PUT("/appeals/:id/status", adminHandler.UpdateStatus)
		admin.POST("/appeals/:id/escalate", adminHandler.EscalateAppeal)
		admin.POST("/appeals/:id/close", adminHandler.CloseAppeal)
	}
}

// HandleInboundMessage is the transport binding: it accepts one inbound chat
// message, runs it through the engine and returns the reply for delivery.
func (h *Handler) HandleInboundMessage(c *gin.Context) {
	var payload struct {
		From          string `json:"from"`
		Text          string `json:"text"`
		AttachmentRef string `json:"attachment_ref"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !ValidSenderID(payload.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sender"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(payload.From) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"reply":       h.composer.Render("rate_limited", nil),
			"retry_after": h.limiter.WaitTime(payload.From).Seconds(),
		})
		return
	}

	msg := entities.InboundMessage{
		ID:            uuid.NewString(),
		From:          payload.From,
		Timestamp:     time.Now().UTC(),
		Text:          TruncateString(SanitizeString(payload.Text), MaxMessageLength),
		AttachmentRef: TruncateString(SanitizeString(payload.AttachmentRef), MaxAttachmentLength),
	}

	reply := h.engine.ProcessMessage(msg)
	c.JSON(http.StatusOK, gin.H{"message_id": msg.ID, "reply": reply.Text})
}
