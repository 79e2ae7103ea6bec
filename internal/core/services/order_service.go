package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gadgethub-api/internal/adapters/events"
	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/adapters/persistence/repositories"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService runs the order lifecycle on top of the ledger
type OrderService struct {
	orderRepo   repositories.OrderRepository
	listingRepo repositories.ListingRepository
	userRepo    repositories.UserRepository
	publisher   events.Publisher
	notifier    *NotificationService
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repositories.OrderRepository,
	listingRepo repositories.ListingRepository,
	userRepo repositories.UserRepository,
	publisher events.Publisher,
	notifier *NotificationService,
) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		orderRepo:   orderRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		notifier:    notifier,
	}
}

// CreateOrderInput represents a purchase request. Prices are never taken from the client.
type CreateOrderInput struct {
	ListingID uint   `json:"listing_id"`
	Method    string `json:"method"`
}

// UpdateStatusInput represents a requested transition
type UpdateStatusInput struct {
	Status string `json:"status"`
}

// MyOrdersOutput splits an account's orders by side. Both sides share one page window.
type MyOrdersOutput struct {
	Buying  *pagination.Response `json:"buying"`
	Selling *pagination.Response `json:"selling"`
}

// CreateOrder books a listing for the buyer. Self purchase is checked before
// availability so it fails the same way whatever the listing state.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID uint, input *CreateOrderInput) (*models.Order, error) {
	method, err := domain.ParseMethod(input.Method)
	if err != nil {
		return nil, err
	}

	buyer, err := s.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: account %d", domain.ErrNotFound, buyerID)
		}
		return nil, err
	}
	if !buyer.Verified {
		return nil, domain.ErrAccountNotVerified
	}

	listing, err := s.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %d", domain.ErrNotFound, input.ListingID)
		}
		return nil, err
	}

	if listing.SellerID == buyer.ID {
		return nil, domain.ErrSelfPurchase
	}
	if listing.Status != domain.ListingAvailable {
		return nil, fmt.Errorf("%w: listing %d is %s", domain.ErrListingUnavailable, listing.ID, listing.Status)
	}

	price := domain.PriceFor(method, listing.Price)
	order := &models.Order{
		Reference:  uuid.NewString(),
		ListingID:  listing.ID,
		BuyerID:    buyer.ID,
		SellerID:   listing.SellerID,
		Method:     method,
		BasePrice:  price.BasePrice,
		AgentFee:   price.AgentFee,
		TotalPrice: price.TotalPrice,
		Branch:     listing.BranchOrigin,
		Status:     domain.StatusPending,
	}

	if err := s.orderRepo.CreateWithReservation(ctx, order, buyer.Actor()); err != nil {
		return nil, err
	}

	listing.Status = domain.ListingBooked
	order.Listing = listing
	order.Buyer = buyer
	order.Seller = listing.Seller

	log.Printf("✅ Order %s created: listing #%d by %s (%s, total %d)",
		order.Reference, listing.ID, buyer.Email, method, order.TotalPrice)

	s.publish(events.EventOrderCreated, order.Reference, events.OrderCreatedPayload{
		OrderID:    order.ID,
		Reference:  order.Reference,
		ListingID:  order.ListingID,
		BuyerID:    order.BuyerID,
		SellerID:   order.SellerID,
		Method:     string(order.Method),
		BasePrice:  order.BasePrice,
		AgentFee:   order.AgentFee,
		TotalPrice: order.TotalPrice,
		Branch:     order.Branch,
	})
	if listing.Seller != nil {
		s.notifier.NotifyOrderCreated(order, listing.Title, listing.Seller.Email)
	}

	return order, nil
}

// UpdateStatus applies one lifecycle transition on behalf of actor.
// Unknown statuses, terminal sources and unauthorized actors all yield ErrInvalidTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, actor domain.Actor, orderID uint, input *UpdateStatusInput) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	to := domain.OrderStatus(input.Status)

	if err := domain.CheckTransition(order.Method, from, to, actor, order.Parties()); err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, to, actor); err != nil {
		return nil, err
	}

	log.Printf("✅ Order %s: %s → %s by %s #%d", order.Reference, from, to, actor.Role, actor.ID)

	s.publish(events.EventOrderStatusChanged, order.Reference, events.OrderStatusChangedPayload{
		OrderID:    order.ID,
		Reference:  order.Reference,
		FromStatus: string(from),
		ToStatus:   string(to),
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Branch:     order.Branch,
	})
	s.notifier.NotifyStatusChanged(order)

	return order, nil
}

// GetOrder returns an order visible to actor
func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID uint) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(actor, order) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// History returns the status log of an order visible to actor
func (s *OrderService) History(ctx context.Context, actor domain.Actor, orderID uint) ([]*models.OrderStatusLog, error) {
	if _, err := s.GetOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return s.orderRepo.History(ctx, orderID)
}

// ListByParty queries the ledger by buyer and/or seller. Customers and agents may
// only query themselves; branch admins are limited to their branch.
func (s *OrderService) ListByParty(ctx context.Context, actor domain.Actor, buyerID, sellerID uint, page *pagination.Params) (*pagination.Response, error) {
	filter := repositories.OrderFilter{BuyerID: buyerID, SellerID: sellerID}

	switch actor.Role {
	case domain.RoleRoot:
	case domain.RoleBranchAdmin:
		filter.Branch = actor.Branch
	default:
		if buyerID == 0 && sellerID == 0 {
			return nil, fmt.Errorf("%w: buyer or seller is required", domain.ErrInvalidInput)
		}
		if (buyerID != 0 && buyerID != actor.ID) || (sellerID != 0 && sellerID != actor.ID) {
			return nil, domain.ErrForbidden
		}
	}

	return s.list(ctx, filter, page)
}

// MyOrders returns one page of the actor's purchases and one of their sales
func (s *OrderService) MyOrders(ctx context.Context, actor domain.Actor, page *pagination.Params) (*MyOrdersOutput, error) {
	buying, err := s.list(ctx, repositories.OrderFilter{BuyerID: actor.ID}, page)
	if err != nil {
		return nil, err
	}
	selling, err := s.list(ctx, repositories.OrderFilter{SellerID: actor.ID}, page)
	if err != nil {
		return nil, err
	}

	return &MyOrdersOutput{Buying: buying, Selling: selling}, nil
}

// WorkQueue returns the orders a role works on: completed sales for root, the whole
// branch for its admin, assigned agent-COD orders for an agent. Customers get nothing.
func (s *OrderService) WorkQueue(ctx context.Context, actor domain.Actor, page *pagination.Params) (*pagination.Response, error) {
	var filter repositories.OrderFilter

	switch actor.Role {
	case domain.RoleRoot:
		filter.Status = domain.StatusCompleted
	case domain.RoleBranchAdmin:
		filter.Branch = actor.Branch
	case domain.RoleAgent:
		filter.Branch = actor.Branch
		filter.Status = domain.StatusAssigned
		filter.Method = domain.MethodCODAgent
	default:
		return pagination.NewResponse([]*models.OrderResponse{}, page, 0), nil
	}

	return s.list(ctx, filter, page)
}

// BranchReport aggregates completed orders per branch
func (s *OrderService) BranchReport(ctx context.Context) ([]*models.BranchSummary, error) {
	return s.orderRepo.BranchSummary(ctx)
}

func (s *OrderService) list(ctx context.Context, filter repositories.OrderFilter, page *pagination.Params) (*pagination.Response, error) {
	orders, total, err := s.orderRepo.List(ctx, filter, page.Offset, page.Limit)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(models.OrdersToResponse(orders), page, total), nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(eventType, reference string, payload any) {
	env, err := events.NewEnvelope(eventType, reference, payload)
	if err != nil {
		log.Printf("❌ Build %s event for %s: %v", eventType, reference, err)
		return
	}
	s.publisher.Publish(env)
}

// canView allows the parties, root, and staff of the order's branch
func canView(actor domain.Actor, order *models.Order) bool {
	switch {
	case actor.ID == order.BuyerID || actor.ID == order.SellerID:
		return true
	case actor.Role == domain.RoleRoot:
		return true
	case actor.Role == domain.RoleBranchAdmin || actor.Role == domain.RoleAgent:
		return actor.Branch == order.Branch
	}
	return false
}
