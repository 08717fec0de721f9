package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/studymap/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"
	"github.com/OFFIS-RIT/studymap/backend/pkg/mindmap"

	"github.com/labstack/echo/v4"
)

// RegenerateArtifactsHandler produces a fresh set of study artifacts for
// an already-built mind map. The caller sends back the nodes and chunk
// summaries from a previous response; the graph itself is never touched.
func RegenerateArtifactsHandler(c echo.Context) error {
	type regenerateBody struct {
		Nodes          []common.TopicNode `json:"nodes" validate:"required,min=1"`
		ChunkSummaries []string           `json:"chunk_summaries"`
	}

	type regenerateResponse struct {
		Message   string                 `json:"message"`
		Artifacts *common.StudyArtifacts `json:"artifacts,omitempty"`
	}

	data := new(regenerateBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, regenerateResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, regenerateResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	artifacts, err := app.MapClient.RegenerateArtifacts(ctx, data.Nodes, data.ChunkSummaries, app.AiClient)
	if err != nil {
		if errors.Is(err, mindmap.ErrEmptyInput) {
			return c.JSON(http.StatusBadRequest, regenerateResponse{
				Message: "The provided nodes contain no content",
			})
		}
		logger.Error("Failed to regenerate artifacts", "err", err)
		return c.JSON(http.StatusInternalServerError, regenerateResponse{
			Message: "Failed to generate study artifacts",
		})
	}

	return c.JSON(http.StatusOK, regenerateResponse{
		Message:   "Artifacts generated",
		Artifacts: artifacts,
	})
}
