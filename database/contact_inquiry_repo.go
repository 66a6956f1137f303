package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/realestate-site/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type ContactInquiryRepo struct {
	db *gorm.DB
}

func NewContactInquiryRepo(db *gorm.DB) *ContactInquiryRepo {
	return &ContactInquiryRepo{db}
}

// Add inserts a new inquiry, assigning its ID and timestamp when unset.
func (r *ContactInquiryRepo) Add(ctx context.Context, inquiry *models.ContactInquiry) error {
	if inquiry.ID == uuid.Nil {
		inquiry.ID = uuid.New()
	}
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(inquiry).Error
}

// FindRecent returns the newest inquiries, at most limit of them.
func (r *ContactInquiryRepo) FindRecent(ctx context.Context, limit int) ([]*models.ContactInquiry, error) {
	var inquiries []*models.ContactInquiry
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Order("created_at DESC").
		Limit(limit).
		Find(&inquiries).Error
	return inquiries, err
}

// CountSince counts inquiries created at or after since.
func (r *ContactInquiryRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Model(&models.ContactInquiry{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
