package routes

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/OFFIS-RIT/studymap/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/studymap/backend/pkg/common"
	"github.com/OFFIS-RIT/studymap/backend/pkg/loader"
	lio "github.com/OFFIS-RIT/studymap/backend/pkg/loader/io"
	"github.com/OFFIS-RIT/studymap/backend/pkg/loader/pdf"
	"github.com/OFFIS-RIT/studymap/backend/pkg/loader/pptx"
	"github.com/OFFIS-RIT/studymap/backend/pkg/loader/web"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"
	"github.com/OFFIS-RIT/studymap/backend/pkg/mindmap"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateMapHandler turns one piece of study material into a mind map.
// It accepts either multipart/form-data with an uploaded file or a JSON
// body carrying raw text or a URL, and runs the pipeline synchronously
// under the request context.
func CreateMapHandler(c echo.Context) error {
	type createMapBody struct {
		Text string `json:"text" form:"text"`
		URL  string `json:"url" form:"url" validate:"omitempty,url"`
	}

	type createMapResponse struct {
		Message string          `json:"message"`
		Map     *common.MindMap `json:"map,omitempty"`
	}

	data := new(createMapBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createMapResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createMapResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()

	text, err := resolveInputText(c, data.Text, data.URL)
	if err != nil {
		logger.Error("Failed to load input text", "err", err)
		return c.JSON(http.StatusBadRequest, createMapResponse{
			Message: "Could not read the provided material",
		})
	}

	app := c.(*middleware.AppContext).App
	result, err := app.MapClient.ProcessText(ctx, text, app.AiClient)
	if err != nil {
		if errors.Is(err, mindmap.ErrEmptyInput) {
			return c.JSON(http.StatusBadRequest, createMapResponse{
				Message: "The provided material contains no text",
			})
		}
		logger.Error("Failed to process material", "err", err)
		return c.JSON(http.StatusInternalServerError, createMapResponse{
			Message: "Failed to process the provided material",
		})
	}

	return c.JSON(http.StatusOK, createMapResponse{
		Message: "Mind map created",
		Map:     result,
	})
}

// resolveInputText extracts the plain text for the request: an uploaded
// file takes precedence, then a URL, then inline text.
func resolveInputText(c echo.Context, text, pageURL string) (string, error) {
	if upload, err := c.FormFile("file"); err == nil && upload != nil {
		return loadUploadedFile(c, upload)
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	if pageURL != "" {
		file := loader.NewWebSourceFile(loader.NewSourceFileParams{
			ID:     id,
			Path:   pageURL,
			Source: web.NewWebTextSource(),
		})
		content, err := file.GetText(c.Request().Context())
		if err != nil {
			return "", err
		}
		return string(content), nil
	}

	file := loader.NewTextSourceFile(id, text)
	content, err := file.GetText(c.Request().Context())
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// loadUploadedFile spools the multipart upload to a temp file and runs
// the extension-appropriate text source over it.
func loadUploadedFile(c echo.Context, upload *multipart.FileHeader) (string, error) {
	filename := upload.Filename
	src, err := upload.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		return "", err
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	ioSource := lio.NewIOTextSource()
	params := loader.NewSourceFileParams{
		ID:   id,
		Path: tmp.Name(),
	}

	var file loader.SourceFile
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		params.Source = pdf.NewPDFTextSource(ioSource)
		file = loader.NewDocumentSourceFile(params)
	case ".pptx":
		params.Source = pptx.NewPPTXTextSource(ioSource)
		file = loader.NewSlidesSourceFile(params)
	default:
		params.Source = ioSource
		file = loader.NewDocumentSourceFile(params)
	}

	content, err := file.GetText(c.Request().Context())
	if err != nil {
		return "", err
	}
	return string(content), nil
}
