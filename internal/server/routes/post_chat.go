package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/studymap/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"
	"github.com/OFFIS-RIT/studymap/backend/pkg/mindmap"

	"github.com/labstack/echo/v4"
)

// AskMapHandler answers a question about a previously built mind map.
// The caller sends the question along with the map content from a prior
// response; nothing is stored server-side between questions, so the
// conversation history travels with the request too.
func AskMapHandler(c echo.Context) error {
	type askMapBody struct {
		Question       string             `json:"question" validate:"required"`
		Messages       []ai.ChatMessage   `json:"messages"`
		Nodes          []common.TopicNode `json:"nodes"`
		ChunkSummaries []string           `json:"chunk_summaries"`
		Summary        string             `json:"summary"`
	}

	type askMapResponse struct {
		Message string           `json:"message"`
		Answer  string           `json:"answer,omitempty"`
		Metrics *ai.ModelMetrics `json:"metrics,omitempty"`
	}

	data := new(askMapBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, askMapResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, askMapResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	answer, err := app.MapClient.AskMap(ctx, mindmap.MapQuestion{
		Question:       data.Question,
		History:        data.Messages,
		Nodes:          data.Nodes,
		ChunkSummaries: data.ChunkSummaries,
		Summary:        data.Summary,
	}, app.AiClient)
	if err != nil {
		if errors.Is(err, mindmap.ErrEmptyInput) {
			return c.JSON(http.StatusBadRequest, askMapResponse{
				Message: "The question is empty",
			})
		}
		logger.Error("Failed to answer map question", "err", err)
		return c.JSON(http.StatusInternalServerError, askMapResponse{
			Message: "Failed to answer the question",
		})
	}

	metrics := app.AiClient.GetMetrics()
	return c.JSON(http.StatusOK, askMapResponse{
		Message: "Question answered",
		Answer:  answer,
		Metrics: &metrics,
	})
}
