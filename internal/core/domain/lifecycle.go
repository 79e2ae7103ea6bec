package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FulfillmentMethod selects how an order is handed over and which
// status table governs it
type FulfillmentMethod string

const (
	// MethodCODMandiri is direct buyer/seller cash on delivery
	MethodCODMandiri FulfillmentMethod = "cod_mandiri"
	// MethodCODAgent is cash on delivery verified by a branch agent
	MethodCODAgent FulfillmentMethod = "cod_agent"
)

// ParseMethod converts client input into a FulfillmentMethod
func ParseMethod(s string) (FulfillmentMethod, error) {
	switch m := FulfillmentMethod(s); m {
	case MethodCODMandiri, MethodCODAgent:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown method %q", ErrInvalidInput, s)
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusAssigned  OrderStatus = "Assigned"
	StatusOnProcess OrderStatus = "On_Process"
	StatusVerified  OrderStatus = "Verified"
	StatusCompleted OrderStatus = "Completed"
	StatusRejected  OrderStatus = "Rejected"
)

// IsTerminal reports whether no transition leaves s
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// AllStatuses lists every order status
var AllStatuses = []OrderStatus{
	StatusPending, StatusAssigned, StatusOnProcess, StatusVerified, StatusCompleted, StatusRejected,
}

var agentFeeRate = decimal.RequireFromString("0.05")

// Pricing holds the amounts fixed on an order at creation time
type Pricing struct {
	BasePrice  int64
	AgentFee   int64
	TotalPrice int64
}

// PriceFor computes the order amounts for a listing price.
// cod_agent adds 5% of the base price, rounded half away from zero.
func PriceFor(method FulfillmentMethod, basePrice int64) Pricing {
	var fee int64
	if method == MethodCODAgent {
		fee = decimal.NewFromInt(basePrice).Mul(agentFeeRate).Round(0).IntPart()
	}
	return Pricing{
		BasePrice:  basePrice,
		AgentFee:   fee,
		TotalPrice: basePrice + fee,
	}
}

// OrderParties is what a capability check needs to know about an order
type OrderParties struct {
	BuyerID  uint
	SellerID uint
	Branch   string
}

// Capability decides whether an actor may apply a transition to an order
type Capability func(actor Actor, order OrderParties) bool

type transitionKey struct {
	method FulfillmentMethod
	from   OrderStatus
	to     OrderStatus
}

func branchStaff(roles ...Role) Capability {
	return func(actor Actor, order OrderParties) bool {
		if actor.Branch != order.Branch {
			return false
		}
		for _, r := range roles {
			if actor.Role == r {
				return true
			}
		}
		return false
	}
}

func seller(actor Actor, order OrderParties) bool { return actor.ID == order.SellerID }

func buyer(actor Actor, order OrderParties) bool { return actor.ID == order.BuyerID }

// transitions is the complete lifecycle. A (method, from, to) triple that is
// not present here is never allowed.
var transitions = map[transitionKey]Capability{
	// agent verified COD
	{MethodCODAgent, StatusPending, StatusAssigned}:   branchStaff(RoleBranchAdmin),
	{MethodCODAgent, StatusAssigned, StatusVerified}:  branchStaff(RoleAgent),
	{MethodCODAgent, StatusVerified, StatusCompleted}: branchStaff(RoleBranchAdmin),
	{MethodCODAgent, StatusPending, StatusRejected}:   branchStaff(RoleBranchAdmin, RoleAgent),
	{MethodCODAgent, StatusAssigned, StatusRejected}:  branchStaff(RoleBranchAdmin, RoleAgent),
	{MethodCODAgent, StatusVerified, StatusRejected}:  branchStaff(RoleBranchAdmin, RoleAgent),

	// peer to peer COD
	{MethodCODMandiri, StatusPending, StatusOnProcess}:   seller,
	{MethodCODMandiri, StatusPending, StatusRejected}:    seller,
	{MethodCODMandiri, StatusOnProcess, StatusCompleted}: buyer,
}

// CheckTransition returns ErrInvalidTransition unless actor may move an
// order of the given method from one status to another
func CheckTransition(method FulfillmentMethod, from, to OrderStatus, actor Actor, order OrderParties) error {
	can, ok := transitions[transitionKey{method, from, to}]
	if !ok {
		return fmt.Errorf("%w: %s order cannot move from %s to %s", ErrInvalidTransition, method, from, to)
	}
	if !can(actor, order) {
		return fmt.Errorf("%w: %s may not move %s order from %s to %s", ErrInvalidTransition, actor.Role, method, from, to)
	}
	return nil
}

// NextStatuses lists the statuses reachable from `from` for a method,
// ignoring who the actor is
func NextStatuses(method FulfillmentMethod, from OrderStatus) []OrderStatus {
	var out []OrderStatus
	for _, to := range AllStatuses {
		if _, ok := transitions[transitionKey{method, from, to}]; ok {
			out = append(out, to)
		}
	}
	return out
}
