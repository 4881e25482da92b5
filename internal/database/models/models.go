// Package models contains the database model definitions.
package models

import "time"

// MediaFile is one entry of the signage media library. The library mirrors
// the file list reported by the media sensor so the server can keep serving
// a playlist when the sensor is unreachable, and accumulates per-file play
// statistics. Playback status itself is never persisted.
// Table: media_files
type MediaFile struct {
	ID           string     `gorm:"column:id;primaryKey"`
	Filename     string     `gorm:"column:filename;uniqueIndex"`
	Position     int        `gorm:"column:position"`
	PlayCount    int        `gorm:"column:play_count;default:0"`
	LastPlayedAt *time.Time `gorm:"column:last_played_at"`
	LastSeenAt   time.Time  `gorm:"column:last_seen_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (MediaFile) TableName() string { return "media_files" }
