// README: AI intake handler; suggests a service type from a problem description.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fixme/internal/ai"
)

type AssistHandler struct {
	suggester ai.Suggester
}

// NewAssistHandler accepts a nil suggester; the endpoint then reports the
// feature as unavailable.
func NewAssistHandler(suggester ai.Suggester) *AssistHandler {
	return &AssistHandler{suggester: suggester}
}

type suggestReq struct {
	Description string `json:"description"`
}

func (h *AssistHandler) Suggest(c *gin.Context) {
	if h.suggester == nil {
		writeError(c, http.StatusServiceUnavailable, "suggestions unavailable")
		return
	}

	var req suggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(c, http.StatusBadRequest, "missing description")
		return
	}

	suggestion, err := h.suggester.SuggestService(c.Request.Context(), req.Description)
	if err != nil {
		writeError(c, http.StatusBadGateway, "suggestion failed")
		return
	}
	writeJSON(c, http.StatusOK, suggestion)
}
