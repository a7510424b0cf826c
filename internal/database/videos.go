package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"video-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrVideoExists   = errors.New("video already exists")
)

// VideoStore reads and writes video records keyed by their client supplied
// id. Every method issues a single statement.
type VideoStore struct {
	db *gorm.DB
}

func NewVideoStore(db *gorm.DB) *VideoStore {
	return &VideoStore{db: db}
}

// Find returns the video with the given id or ErrVideoNotFound. It always
// reads from the primary, so a write that follows it sees current data.
func (s *VideoStore) Find(ctx context.Context, id int64) (*models.Video, error) {
	var video models.Video
	err := s.db.WithContext(ctx).Clauses(dbresolver.Write).Where("id = ?", id).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find video %d: %w", id, err)
	}
	return &video, nil
}

// Insert stores a new video. A duplicate id yields ErrVideoExists.
func (s *VideoStore) Insert(ctx context.Context, video *models.Video) error {
	err := s.db.WithContext(ctx).Create(video).Error
	if isDuplicate(err) {
		return ErrVideoExists
	}
	if err != nil {
		return fmt.Errorf("insert video %d: %w", video.ID, err)
	}
	return nil
}

// Update overwrites name, views and likes of the stored video with the same id.
func (s *VideoStore) Update(ctx context.Context, video *models.Video) error {
	result := s.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", video.ID).Updates(map[string]interface{}{
		"name":  video.Name,
		"views": video.Views,
		"likes": video.Likes,
	})
	if result.Error != nil {
		return fmt.Errorf("update video %d: %w", video.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		// MySQL reports zero rows when the values did not change.
		var count int64
		if err := s.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&models.Video{}).Where("id = ?", video.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("update video %d: %w", video.ID, err)
		}
		if count == 0 {
			return ErrVideoNotFound
		}
	}
	return nil
}

// Delete removes the video with the given id.
func (s *VideoStore) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Video{})
	if result.Error != nil {
		return fmt.Errorf("delete video %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// List returns every stored video ordered by id. The slice is empty, not nil,
// when there are none.
func (s *VideoStore) List(ctx context.Context) ([]models.Video, error) {
	videos := []models.Video{}
	if err := s.db.WithContext(ctx).Order("id").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// Ping checks that the database answers.
func (s *VideoStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "Duplicate entry")
}
