// Package repositories contains the data access layer.
package repositories

import (
	"context"
	"time"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/loopsign/loopsign-go/internal/database/models"
)

// MediaRepository handles media library data access.
type MediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// ReplaceAll mirrors the library to the given file list: entries absent
// from the list are removed, new entries are created, and surviving entries
// keep their play statistics. Order in the list becomes the stored position.
func (r *MediaRepository) ReplaceAll(ctx context.Context, filenames []string) error {
	now := time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(filenames) == 0 {
			return tx.Where("1 = 1").Delete(&models.MediaFile{}).Error
		}

		if err := tx.Where("filename NOT IN ?", filenames).Delete(&models.MediaFile{}).Error; err != nil {
			return err
		}

		for i, filename := range filenames {
			var existing models.MediaFile
			result := tx.First(&existing, "filename = ?", filename)

			if result.Error == gorm.ErrRecordNotFound {
				entry := models.MediaFile{
					ID:         cuid.New(),
					Filename:   filename,
					Position:   i,
					LastSeenAt: now,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
				continue
			}
			if result.Error != nil {
				return result.Error
			}

			updates := map[string]interface{}{
				"position":     i,
				"last_seen_at": now,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the library ordered by playlist position.
func (r *MediaRepository) List(ctx context.Context) ([]models.MediaFile, error) {
	var files []models.MediaFile
	result := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&files)
	return files, result.Error
}

// Filenames returns just the filenames, ordered by playlist position.
func (r *MediaRepository) Filenames(ctx context.Context) ([]string, error) {
	files, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	return names, nil
}

// RecordPlay increments the play counter for a filename. Files loaded
// directly (outside the sensor list) get a library entry on first play.
func (r *MediaRepository) RecordPlay(ctx context.Context, filename string) error {
	now := time.Now()

	var existing models.MediaFile
	result := r.db.WithContext(ctx).First(&existing, "filename = ?", filename)

	if result.Error == gorm.ErrRecordNotFound {
		entry := models.MediaFile{
			ID:           cuid.New(),
			Filename:     filename,
			Position:     -1, // Not part of the sensor playlist
			PlayCount:    1,
			LastPlayedAt: &now,
			LastSeenAt:   now,
		}
		return r.db.WithContext(ctx).Create(&entry).Error
	}
	if result.Error != nil {
		return result.Error
	}

	return r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"play_count":     gorm.Expr("play_count + 1"),
		"last_played_at": now,
	}).Error
}
