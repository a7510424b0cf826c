package routes

import (
	"log/slog"
	"net/http"

	"video-api/internal/config"
	"video-api/internal/handlers"
	"video-api/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Store is everything the routes need from persistence.
type Store interface {
	handlers.VideoStore
	handlers.Pinger
}

// Param documents a path parameter.
type Param struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Route binds a method and path to a handler and describes the operation.
type Route struct {
	Method    string
	Path      string
	Summary   string
	Params    []Param
	Body      handlers.Schema
	Responses map[int]string
	Handler   gin.HandlerFunc
}

var videoIDParam = Param{Name: "id", In: "path", Type: "integer", Required: true, Description: "video id"}

// Table returns the video API routes. It is built once by New and not
// modified afterwards.
func Table(h *handlers.VideoHandler) []Route {
	return []Route{
		{
			Method:  http.MethodGet,
			Path:    "/api/videos/:id",
			Summary: "Get a video by id",
			Params:  []Param{videoIDParam},
			Responses: map[int]string{
				http.StatusOK:       "video found",
				http.StatusNotFound: "video not found",
			},
			Handler: h.GetVideo,
		},
		{
			Method:  http.MethodPut,
			Path:    "/api/videos/:id",
			Summary: "Create a video with the given id",
			Params:  []Param{videoIDParam},
			Body:    handlers.CreateVideoSchema(),
			Responses: map[int]string{
				http.StatusCreated:    "video created",
				http.StatusBadRequest: "missing or invalid field",
				http.StatusConflict:   "a video with this id already exists",
			},
			Handler: h.CreateVideo,
		},
		{
			Method:  http.MethodPatch,
			Path:    "/api/videos/:id",
			Summary: "Update the given fields of a video",
			Params:  []Param{videoIDParam},
			Body:    handlers.UpdateVideoSchema(),
			Responses: map[int]string{
				http.StatusOK:         "video updated",
				http.StatusBadRequest: "invalid field",
				http.StatusNotFound:   "video not found",
			},
			Handler: h.UpdateVideo,
		},
		{
			Method:  http.MethodDelete,
			Path:    "/api/videos/:id",
			Summary: "Delete a video",
			Params:  []Param{videoIDParam},
			Responses: map[int]string{
				http.StatusNoContent: "video deleted",
				http.StatusNotFound:  "video not found",
			},
			Handler: h.DeleteVideo,
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/videos",
			Summary: "List all videos",
			Responses: map[int]string{
				http.StatusOK: "all videos",
			},
			Handler: h.ListVideos,
		},
	}
}

// Options configures New.
type Options struct {
	Logger       *slog.Logger
	Store        Store
	AllowOrigins []string
}

// New builds the gin engine with the middleware stack, the route table, the
// status endpoint and the API description.
func New(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		logging.RequestID(),
		logging.RequestLogger(logging.Component(logger, "http")),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			logging.Request(c.Request.Context(), logger).Error("panic while serving request", "panic", recovered)
			handlers.InternalError(c)
		}),
		cors.New(corsConfig(opts.AllowOrigins)),
	)

	table := Table(handlers.NewVideoHandler(opts.Store, logger))
	for _, route := range table {
		r.Handle(route.Method, route.Path, route.Handler)
	}

	r.GET("/api/status", handlers.Status(opts.Store))
	r.GET("/api/docs", Docs(table))

	r.NoRoute(handlers.NotFound)
	r.NoMethod(handlers.MethodNotAllowed)
	return r
}

// GinMode maps the application environment to a gin mode.
func GinMode(env string) string {
	switch env {
	case config.EnvProduction:
		return gin.ReleaseMode
	case config.EnvTesting:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", logging.RequestIDHeader},
		ExposeHeaders: []string{logging.RequestIDHeader},
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
