package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Kirthidass/Care-Bridge/internal/model"
)

type TranscriptRepository struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) Create(entry *model.TranscriptEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("create transcript entry failed: %w", err)
	}
	return nil
}

func (r *TranscriptRepository) ListBySessionID(sessionID string, limit int) ([]model.TranscriptEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []model.TranscriptEntry
	if err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list transcript entries failed: %w", err)
	}
	return entries, nil
}
