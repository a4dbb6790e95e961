package markets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new market repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func preloadOutcomes(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC")
}

// GetAll returns markets with filters and pagination
func (r *repository) GetAll(ctx context.Context, filters *MarketFilters) ([]models.Market, int64, error) {
	var markets []models.Market
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Market{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applySorting(query, filters)
	query = r.applyPagination(query, filters)

	err := query.Preload("Outcomes", preloadOutcomes).Find(&markets).Error
	return markets, total, err
}

// GetByID returns a market by ID with its outcomes in display order
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).
		Preload("Outcomes", preloadOutcomes).
		Where("id = ?", id).
		First(&market).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

// Create inserts a market together with its outcomes
func (r *repository) Create(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(market).Error
	})
}

// UpdateStatus sets a market's status
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.MarketStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Market{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CloseExpired closes every open market whose close time has passed and
// returns their IDs
func (r *repository) CloseExpired(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Market{}).
			Where("status = ? AND close_time <= ?", models.MarketStatusOpen, time.Now()).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&models.Market{}).
			Where("id IN ?", ids).
			Update("status", models.MarketStatusClosed).Error
	})
	return ids, err
}

// applyFilters applies search and filter criteria to the query
func (r *repository) applyFilters(query *gorm.DB, filters *MarketFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	if filters.CreatorWallet != "" {
		query = query.Where("creator_wallet = ?", filters.CreatorWallet)
	}

	if filters.Search != "" {
		searchTerm := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	return query
}

// applySorting applies sorting to the query
func (r *repository) applySorting(query *gorm.DB, filters *MarketFilters) *gorm.DB {
	sortBy := "created_at"
	sortOrder := "desc"
	if filters != nil {
		sortBy = filters.SortBy
		sortOrder = strings.ToLower(filters.SortOrder)
	}

	// Validate sort fields to prevent SQL injection
	validSortFields := map[string]bool{
		"created_at": true,
		"close_time": true,
		"title":      true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}

// applyPagination applies pagination to the query
func (r *repository) applyPagination(query *gorm.DB, filters *MarketFilters) *gorm.DB {
	page, perPage := 1, defaultPerPage
	if filters != nil {
		page, perPage = filters.Page, filters.PerPage
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	offset := (page - 1) * perPage
	return query.Offset(offset).Limit(perPage)
}
