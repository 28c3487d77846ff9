package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/educompass/educompass-backend/internal/counsellor"
	"github.com/educompass/educompass-backend/internal/requestdata"
	"github.com/educompass/educompass-backend/internal/services"
)

type CounsellorHandler struct {
	engine            *counsellor.Engine
	universityService services.UniversityService
}

func NewCounsellorHandler(engine *counsellor.Engine, universityService services.UniversityService) *CounsellorHandler {
	return &CounsellorHandler{engine: engine, universityService: universityService}
}

// Chat runs one counsellor turn. The response body is always the full
// chat envelope; the status code only signals transport-level health so
// clients can retry on 5xx and render anything else.
func (ch *CounsellorHandler) Chat(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	result, err := ch.engine.Chat(c.Request.Context(), rd.UserID, req.Message)
	if err != nil {
		if errors.Is(err, counsellor.ErrProfileNotFound) {
			// Missing profile is a conversational dead end, not a server
			// fault. The client renders the message like any other reply.
			c.JSON(http.StatusOK, counsellor.ChatResult{
				Success:         false,
				AIMessage:       "Please complete your profile first so I can give you useful advice.",
				ActionsExecuted: []string{},
				ActionResults:   []counsellor.ActionResult{},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "counsellor request failed", "type": "server_error"})
		return
	}

	c.JSON(statusForErrorKind(result.ErrorKind), result)
}

// Recommend returns the rule-engine classification without a model call.
func (ch *CounsellorHandler) Recommend(c *gin.Context) {
	rd, ok := requestdata.GetRequestData(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	recommendations, err := ch.universityService.Recommend(c.Request.Context(), rd.UserID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

func statusForErrorKind(kind counsellor.ErrorKind) int {
	switch kind {
	case counsellor.ErrorKindConfiguration, counsellor.ErrorKindNetwork:
		return http.StatusServiceUnavailable
	case counsellor.ErrorKindUpstream:
		return http.StatusBadGateway
	default:
		// Malformed model output still carried a usable message.
		return http.StatusOK
	}
}
