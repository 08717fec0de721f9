package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "github.com/OFFIS-RIT/studymap/backend/internal/server/middleware"
	"github.com/OFFIS-RIT/studymap/backend/internal/util"
	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	oai "github.com/OFFIS-RIT/studymap/backend/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/studymap/backend/pkg/ai/openai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/logger"
	"github.com/OFFIS-RIT/studymap/backend/pkg/mindmap"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func newAIClient() ai.MapAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewMapOllamaClient(oai.NewMapOllamaClientParams{
			CompletionModel: util.GetEnv("AI_COMPLETION_MODEL"),
			StructuredModel: util.GetEnv("AI_STRUCTURED_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewMapOpenAIClient(gai.NewMapOpenAIClientParams{
			CompletionModel: util.GetEnv("AI_COMPLETION_MODEL"),
			StructuredModel: util.GetEnv("AI_STRUCTURED_MODEL"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		})
	}
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mapClient, err := mindmap.NewMapClient(mindmap.NewMapClientParams{
		TokenEncoder:       util.GetEnv("MAP_TOKEN_ENCODER"),
		MaxChunkTokens:     int(util.GetEnvNumeric("MAP_MAX_CHUNK_TOKENS", 1200)),
		ParallelAiRequests: int(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		MaxRetries:         int(util.GetEnvNumeric("MAP_MAX_RETRIES", 3)),
		MaxKeywords:        int(util.GetEnvNumeric("MAP_MAX_KEYWORDS", 15)),
	})
	if err != nil {
		logger.Fatal("Failed to create map client", "err", err)
	}

	app := &mid.App{
		AiClient:  newAIClient(),
		MapClient: mapClient,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("100M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
