package models

import (
	"time"

	"gadgethub-api/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Account Directory
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      domain.Role    `gorm:"size:20;not null;default:'customer'" json:"role"`
	Branch    string         `gorm:"size:50;not null;default:'Jakarta';index" json:"branch"`
	Location  string         `gorm:"size:100" json:"location"`
	Verified  bool           `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Actor returns the identity used for authorization checks
func (u *User) Actor() domain.Actor {
	return domain.Actor{ID: u.ID, Role: u.Role, Branch: u.Branch}
}

// UserResponse DTO
type UserResponse struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Branch    string      `json:"branch"`
	Location  string      `json:"location,omitempty"`
	Verified  bool        `json:"verified"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Branch:    u.Branch,
		Location:  u.Location,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      *User      `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Catalog
// ============================================================

// Listing represents listings table
type Listing struct {
	ID           uint                 `gorm:"primaryKey" json:"id"`
	Title        string               `gorm:"size:150;not null" json:"title"`
	Description  string               `gorm:"type:text" json:"description"`
	Price        int64                `gorm:"not null" json:"price"`
	Category     domain.Category      `gorm:"size:20;not null;index" json:"category"`
	Brand        string               `gorm:"size:50;not null" json:"brand"`
	SellerID     uint                 `gorm:"not null;index" json:"seller_id"`
	BranchOrigin string               `gorm:"size:50;not null;index" json:"branch_origin"`
	Status       domain.ListingStatus `gorm:"size:20;not null;default:'Available';index" json:"status"`
	IsUrgent     bool                 `gorm:"not null;default:false" json:"is_urgent"`
	Negotiable   bool                 `gorm:"not null" json:"negotiable"`
	CreatedAt    time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Seller *User `gorm:"foreignKey:SellerID" json:"-"`
}

func (Listing) TableName() string {
	return "listings"
}

// ListingResponse DTO
type ListingResponse struct {
	ID           uint                 `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Price        int64                `json:"price"`
	Category     domain.Category      `json:"category"`
	Brand        string               `json:"brand"`
	SellerID     uint                 `json:"seller_id"`
	SellerEmail  string               `json:"seller_email,omitempty"`
	BranchOrigin string               `json:"branch_origin"`
	Status       domain.ListingStatus `json:"status"`
	IsUrgent     bool                 `json:"is_urgent"`
	Negotiable   bool                 `json:"negotiable"`
	CreatedAt    time.Time            `json:"created_at"`
}

func (l *Listing) ToResponse() *ListingResponse {
	resp := &ListingResponse{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		Category:     l.Category,
		Brand:        l.Brand,
		SellerID:     l.SellerID,
		BranchOrigin: l.BranchOrigin,
		Status:       l.Status,
		IsUrgent:     l.IsUrgent,
		Negotiable:   l.Negotiable,
		CreatedAt:    l.CreatedAt,
	}
	if l.Seller != nil {
		resp.SellerEmail = l.Seller.Email
	}
	return resp
}

// ============================================================
// Order Ledger
// ============================================================

// Order represents orders table. Price and branch are snapshots taken at creation.
type Order struct {
	ID         uint                     `gorm:"primaryKey" json:"id"`
	Reference  string                   `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	ListingID  uint                     `gorm:"not null;index" json:"listing_id"`
	BuyerID    uint                     `gorm:"not null;index" json:"buyer_id"`
	SellerID   uint                     `gorm:"not null;index" json:"seller_id"`
	Method     domain.FulfillmentMethod `gorm:"size:20;not null" json:"method"`
	BasePrice  int64                    `gorm:"not null" json:"base_price"`
	AgentFee   int64                    `gorm:"not null;default:0" json:"agent_fee"`
	TotalPrice int64                    `gorm:"not null" json:"total_price"`
	Branch     string                   `gorm:"size:50;not null;index" json:"branch"`
	Status     domain.OrderStatus       `gorm:"size:20;not null;index" json:"status"`
	CreatedAt  time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time                `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations (resolved live for display)
	Listing *Listing `gorm:"foreignKey:ListingID" json:"-"`
	Buyer   *User    `gorm:"foreignKey:BuyerID" json:"-"`
	Seller  *User    `gorm:"foreignKey:SellerID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// Parties returns the fields capability checks look at
func (o *Order) Parties() domain.OrderParties {
	return domain.OrderParties{BuyerID: o.BuyerID, SellerID: o.SellerID, Branch: o.Branch}
}

// OrderResponse DTO
type OrderResponse struct {
	ID            uint                     `json:"id"`
	Reference     string                   `json:"reference"`
	ListingID     uint                     `json:"listing_id"`
	ListingTitle  string                   `json:"listing_title,omitempty"`
	ListingStatus domain.ListingStatus     `json:"listing_status,omitempty"`
	BuyerID       uint                     `json:"buyer_id"`
	BuyerEmail    string                   `json:"buyer_email,omitempty"`
	SellerID      uint                     `json:"seller_id"`
	SellerEmail   string                   `json:"seller_email,omitempty"`
	Method        domain.FulfillmentMethod `json:"method"`
	BasePrice     int64                    `json:"base_price"`
	AgentFee      int64                    `json:"agent_fee"`
	TotalPrice    int64                    `json:"total_price"`
	Branch        string                   `json:"branch"`
	Status        domain.OrderStatus       `json:"status"`
	NextStatuses  []domain.OrderStatus     `json:"next_statuses"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

func (o *Order) ToResponse() *OrderResponse {
	resp := &OrderResponse{
		ID:           o.ID,
		Reference:    o.Reference,
		ListingID:    o.ListingID,
		BuyerID:      o.BuyerID,
		SellerID:     o.SellerID,
		Method:       o.Method,
		BasePrice:    o.BasePrice,
		AgentFee:     o.AgentFee,
		TotalPrice:   o.TotalPrice,
		Branch:       o.Branch,
		Status:       o.Status,
		NextStatuses: domain.NextStatuses(o.Method, o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}

	if o.Listing != nil {
		resp.ListingTitle = o.Listing.Title
		resp.ListingStatus = o.Listing.Status
	}
	if o.Buyer != nil {
		resp.BuyerEmail = o.Buyer.Email
	}
	if o.Seller != nil {
		resp.SellerEmail = o.Seller.Email
	}

	return resp
}

// OrdersToResponse converts a slice of orders
func OrdersToResponse(orders []*Order) []*OrderResponse {
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = o.ToResponse()
	}
	return out
}

// OrderStatusLog is the append-only history of an order
type OrderStatusLog struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	OrderID    uint                `gorm:"not null;index" json:"order_id"`
	FromStatus *domain.OrderStatus `gorm:"size:20" json:"from_status"`
	ToStatus   domain.OrderStatus  `gorm:"size:20;not null" json:"to_status"`
	ActorID    uint                `gorm:"not null" json:"actor_id"`
	ActorRole  domain.Role         `gorm:"size:20;not null" json:"actor_role"`
	CreatedAt  time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (OrderStatusLog) TableName() string {
	return "order_status_logs"
}

// BranchSummary is one row of the completed-sales report
type BranchSummary struct {
	Branch string `json:"branch"`
	Orders int64  `json:"orders"`
	Total  int64  `json:"total"`
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Listing{},
		&Order{},
		&OrderStatusLog{},
	)
}
