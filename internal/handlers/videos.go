package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"video-api/internal/database"
	"video-api/internal/logging"
	"video-api/internal/models"

	"github.com/gin-gonic/gin"
)

// VideoStore is the persistence the video handlers depend on.
type VideoStore interface {
	Find(ctx context.Context, id int64) (*models.Video, error)
	Insert(ctx context.Context, video *models.Video) error
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Video, error)
}

// --- Request types ---

// CreateVideoRequest uses pointers so that zero counters still pass the
// required check.
type CreateVideoRequest struct {
	Name  *string `json:"name" binding:"required"`
	Views *int64  `json:"views" binding:"required"`
	Likes *int64  `json:"likes" binding:"required"`
}

// UpdateVideoRequest holds the optional fields of a partial update. Nil means
// the stored value is kept.
type UpdateVideoRequest struct {
	Name  *string `json:"name"`
	Views *int64  `json:"views"`
	Likes *int64  `json:"likes"`
}

func (r UpdateVideoRequest) apply(video *models.Video) {
	if r.Name != nil {
		video.Name = *r.Name
	}
	if r.Views != nil {
		video.Views = *r.Views
	}
	if r.Likes != nil {
		video.Likes = *r.Likes
	}
}

// VideoHandler serves the video resource.
type VideoHandler struct {
	store  VideoStore
	logger *slog.Logger
}

func NewVideoHandler(store VideoStore, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{store: store, logger: logging.Component(logger, "videos")}
}

// --- Handler Functions ---

func (h *VideoHandler) GetVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}

	video, err := h.store.Find(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}

	var req CreateVideoRequest
	if err := bindJSON(c, &req); err != nil {
		validationFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Find(ctx, id); err == nil {
		abortWithMessage(c, http.StatusConflict, fmt.Sprintf("video with id %d already exists", id))
		return
	} else if !errors.Is(err, database.ErrVideoNotFound) {
		h.storeError(c, id, err)
		return
	}

	video := models.Video{ID: id, Name: *req.Name, Views: *req.Views, Likes: *req.Likes}
	if err := h.store.Insert(ctx, &video); err != nil {
		h.storeError(c, id, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}

	var req UpdateVideoRequest
	if err := bindJSON(c, &req); err != nil {
		validationFailed(c, err)
		return
	}

	ctx := c.Request.Context()
	video, err := h.store.Find(ctx, id)
	if err != nil {
		h.storeError(c, id, err)
		return
	}

	req.apply(video)
	if err := h.store.Update(ctx, video); err != nil {
		h.storeError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VideoHandler) ListVideos(c *gin.Context) {
	videos, err := h.store.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}
	c.JSON(http.StatusOK, videos)
}

// videoID parses the id path parameter. Anything but a non-negative integer
// does not name a video, so it is answered like a missing one.
func videoID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 || raw[0] == '+' || raw[0] == '-' {
		abortWithMessage(c, http.StatusNotFound, fmt.Sprintf("video with id %s not found", raw))
		return 0, false
	}
	return id, true
}

// storeError maps persistence errors to responses. Unexpected errors are
// logged and hidden behind a generic 500.
func (h *VideoHandler) storeError(c *gin.Context, id int64, err error) {
	switch {
	case errors.Is(err, database.ErrVideoNotFound):
		abortWithMessage(c, http.StatusNotFound, fmt.Sprintf("video with id %d not found", id))
	case errors.Is(err, database.ErrVideoExists):
		abortWithMessage(c, http.StatusConflict, fmt.Sprintf("video with id %d already exists", id))
	default:
		h.internalError(c, err, "video_id", id)
	}
}

func (h *VideoHandler) internalError(c *gin.Context, err error, attrs ...any) {
	_ = c.Error(err)
	logging.Request(c.Request.Context(), h.logger).Error("storage failure", append(attrs, "error", err)...)
	InternalError(c)
}
