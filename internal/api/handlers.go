package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sivi/internal/auth"
	"sivi/internal/models"
	"sivi/internal/service/assistant"
)

// Handler wires HTTP routes to the assistant service.
type Handler struct {
	assistant *assistant.Service
	auth      *auth.Service
	log       zerolog.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(service *assistant.Service, authService *auth.Service, log zerolog.Logger) *Handler {
	return &Handler{
		assistant: service,
		auth:      authService,
		log:       log,
	}
}

// NewRouter builds a gin engine with the middleware chain and all routes attached.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(requestID(), requestLogger(h.log), recovery(h.log))
	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.health)

	router.POST("/users", h.createUser)
	router.GET("/users/:id", h.getUser)

	conv := router.Group("/conversation")
	conv.Use(h.auth.Middleware())
	conv.POST("", h.enveloped(h.addConversation))
	conv.GET("/:userId", h.enveloped(h.getHistory))

	router.GET("/media", h.getPrompt)
}

type createUserRequest struct {
	Username string `json:"username"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.assistant.CreateUser(c.Request.Context(), req.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// getUser answers with a JSON null body when the user does not exist.
func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.assistant.UserWithConversations(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, assistant.ErrUserNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{User: user, Conversations: user.Conversations})
}

// userResponse always renders conversations, as [] when the user has none.
type userResponse struct {
	*models.User
	Conversations []*models.Conversation `json:"conversations"`
}

type addConversationRequest struct {
	UserID   int64  `json:"userId"`
	UserText string `json:"userText"`
}

func (r *addConversationRequest) normalize() {
	r.UserText = strings.TrimSpace(r.UserText)
}

func (r *addConversationRequest) validate() error {
	switch {
	case r.UserID <= 0:
		return errors.New("userId is required")
	case r.UserText == "":
		return errors.New("userText is required")
	}
	return nil
}

func (h *Handler) addConversation(c *gin.Context) (int, any, error) {
	var req addConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return 0, nil, badRequest("invalid request body")
	}
	req.normalize()
	if err := req.validate(); err != nil {
		return 0, nil, badRequest(err.Error())
	}
	conv, err := h.assistant.AddConversation(c.Request.Context(), req.UserID, req.UserText)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusCreated, conv, nil
}

func (h *Handler) getHistory(c *gin.Context) (int, any, error) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, nil, badRequest("invalid user id")
	}
	history, err := h.assistant.History(c.Request.Context(), userID)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, history, nil
}

func (h *Handler) getPrompt(c *gin.Context) {
	prompt, err := h.assistant.RandomPrompt(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (h *Handler) health(c *gin.Context) {
	if err := h.assistant.Ping(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
