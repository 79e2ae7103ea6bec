package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/adapters/persistence/repositories"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/pagination"

	"gorm.io/gorm"
)

// CatalogService handles listings
type CatalogService struct {
	listingRepo repositories.ListingRepository
	userRepo    repositories.UserRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	listingRepo repositories.ListingRepository,
	userRepo repositories.UserRepository,
) *CatalogService {
	return &CatalogService{
		listingRepo: listingRepo,
		userRepo:    userRepo,
	}
}

// ListListingsInput filters the catalog. Branch "Semua" or "all" means every branch.
// An empty Status means Available; "all" means any status.
type ListListingsInput struct {
	Branch   string
	Status   string
	Category string
}

// CreateListingInput represents a new listing from its seller
type CreateListingInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Brand       string `json:"brand"`
	IsUrgent    bool   `json:"is_urgent"`
	Negotiable  *bool  `json:"negotiable"`
}

func isAll(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "" || v == "all" || v == "semua"
}

// List lists listings, newest first
func (s *CatalogService) List(ctx context.Context, input *ListListingsInput, page *pagination.Params) (*pagination.Response, error) {
	filter := repositories.ListingFilter{}

	if !isAll(input.Branch) {
		filter.Branch = strings.TrimSpace(input.Branch)
	}

	switch status := strings.TrimSpace(input.Status); {
	case status == "":
		filter.Status = domain.ListingAvailable
	case strings.EqualFold(status, "all"):
	case domain.ListingStatus(status) == domain.ListingAvailable || domain.ListingStatus(status) == domain.ListingBooked:
		filter.Status = domain.ListingStatus(status)
	default:
		return nil, fmt.Errorf("%w: unknown listing status %q", domain.ErrInvalidInput, status)
	}

	if !isAll(input.Category) {
		category := domain.Category(strings.TrimSpace(input.Category))
		if !category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, input.Category)
		}
		filter.Category = category
	}

	listings, total, err := s.listingRepo.List(ctx, filter, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]*models.ListingResponse, len(listings))
	for i, l := range listings {
		items[i] = l.ToResponse()
	}

	return pagination.NewResponse(items, page, total), nil
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// Get gets one listing
func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return listing, nil
}

// Create publishes a listing owned by the caller in the caller's branch
func (s *CatalogService) Create(ctx context.Context, sellerID uint, input *CreateListingInput) (*models.Listing, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if hasControl(title) || hasControl(input.Brand) {
		return nil, fmt.Errorf("%w: title and brand must be a single line of text", domain.ErrInvalidInput)
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	}
	category := domain.Category(input.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: category must be iPhone or Android", domain.ErrInvalidInput)
	}

	seller, err := s.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account %d", domain.ErrNotFound, sellerID)
		}
		return nil, err
	}
	if !seller.Verified {
		return nil, domain.ErrAccountNotVerified
	}

	negotiable := true
	if input.Negotiable != nil {
		negotiable = *input.Negotiable
	}

	listing := &models.Listing{
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Price:        input.Price,
		Category:     category,
		Brand:        strings.TrimSpace(input.Brand),
		SellerID:     seller.ID,
		BranchOrigin: seller.Branch,
		Status:       domain.ListingAvailable,
		IsUrgent:     input.IsUrgent,
		Negotiable:   negotiable,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	listing.Seller = seller

	log.Printf("✅ Listing created: #%d %s (seller: %s, branch: %s)", listing.ID, listing.Title, seller.Email, listing.BranchOrigin)
	return listing, nil
}

// SetStatus overwrites a listing's status. Order flows reserve and release listings
// through the ledger; this is the manual override. It cannot put a listing back on
// sale while an order that was not rejected still holds it.
func (s *CatalogService) SetStatus(ctx context.Context, id uint, status domain.ListingStatus) error {
	if status != domain.ListingAvailable && status != domain.ListingBooked {
		return fmt.Errorf("%w: unknown listing status %q", domain.ErrInvalidInput, status)
	}
	if err := s.listingRepo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: listing %d", domain.ErrNotFound, id)
		}
		return err
	}
	return nil
}
