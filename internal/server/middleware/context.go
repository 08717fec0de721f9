package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/studymap/backend/pkg/ai"
	"github.com/OFFIS-RIT/studymap/backend/pkg/mindmap"
)

// App bundles the long-lived collaborators every handler needs: the AI
// client behind the pipeline and the configured pipeline client itself.
type App struct {
	AiClient  ai.MapAIClient
	MapClient *mindmap.MapClient
}

type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware wraps every request context in an AppContext
// carrying the shared application state.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
