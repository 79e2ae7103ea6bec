package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testOrder = OrderParties{BuyerID: 10, SellerID: 20, Branch: BranchBandung}

	bdgAdmin = Actor{ID: 1, Role: RoleBranchAdmin, Branch: BranchBandung}
	bdgAgent = Actor{ID: 2, Role: RoleAgent, Branch: BranchBandung}
	jktAdmin = Actor{ID: 3, Role: RoleBranchAdmin, Branch: BranchJakarta}
	jktAgent = Actor{ID: 4, Role: RoleAgent, Branch: BranchJakarta}
	root     = Actor{ID: 5, Role: RoleRoot, Branch: BranchHQ}
	theBuyer = Actor{ID: 10, Role: RoleCustomer, Branch: BranchJakarta}
	theSellr = Actor{ID: 20, Role: RoleCustomer, Branch: BranchBandung}
	stranger = Actor{ID: 30, Role: RoleCustomer, Branch: BranchBandung}
)

func TestPriceFor(t *testing.T) {
	tests := []struct {
		name   string
		method FulfillmentMethod
		base   int64
		want   Pricing
	}{
		{"agent 10m", MethodCODAgent, 10_000_000, Pricing{10_000_000, 500_000, 10_500_000}},
		{"agent rounds half up", MethodCODAgent, 10, Pricing{10, 1, 11}},
		{"agent rounds down", MethodCODAgent, 29, Pricing{29, 1, 30}},
		{"agent rounds up", MethodCODAgent, 31, Pricing{31, 2, 33}},
		{"mandiri has no fee", MethodCODMandiri, 10_000_000, Pricing{10_000_000, 0, 10_000_000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceFor(tt.method, tt.base)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.BasePrice+got.AgentFee, got.TotalPrice)
		})
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("cod_agent")
	require.NoError(t, err)
	assert.Equal(t, MethodCODAgent, m)

	_, err = ParseMethod("bank_transfer")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCheckTransition_Allowed(t *testing.T) {
	tests := []struct {
		name   string
		method FulfillmentMethod
		from   OrderStatus
		to     OrderStatus
		actor  Actor
	}{
		{"admin assigns", MethodCODAgent, StatusPending, StatusAssigned, bdgAdmin},
		{"agent verifies", MethodCODAgent, StatusAssigned, StatusVerified, bdgAgent},
		{"admin completes", MethodCODAgent, StatusVerified, StatusCompleted, bdgAdmin},
		{"admin rejects pending", MethodCODAgent, StatusPending, StatusRejected, bdgAdmin},
		{"agent rejects assigned", MethodCODAgent, StatusAssigned, StatusRejected, bdgAgent},
		{"admin rejects verified", MethodCODAgent, StatusVerified, StatusRejected, bdgAdmin},
		{"seller accepts", MethodCODMandiri, StatusPending, StatusOnProcess, theSellr},
		{"seller rejects", MethodCODMandiri, StatusPending, StatusRejected, theSellr},
		{"buyer completes", MethodCODMandiri, StatusOnProcess, StatusCompleted, theBuyer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, CheckTransition(tt.method, tt.from, tt.to, tt.actor, testOrder))
		})
	}
}

func TestCheckTransition_WrongActor(t *testing.T) {
	tests := []struct {
		name   string
		method FulfillmentMethod
		from   OrderStatus
		to     OrderStatus
		actor  Actor
	}{
		{"agent cannot assign", MethodCODAgent, StatusPending, StatusAssigned, bdgAgent},
		{"other branch admin cannot assign", MethodCODAgent, StatusPending, StatusAssigned, jktAdmin},
		{"admin cannot verify", MethodCODAgent, StatusAssigned, StatusVerified, bdgAdmin},
		{"other branch agent cannot verify", MethodCODAgent, StatusAssigned, StatusVerified, jktAgent},
		{"other branch agent cannot reject", MethodCODAgent, StatusPending, StatusRejected, jktAgent},
		{"root cannot complete", MethodCODAgent, StatusVerified, StatusCompleted, root},
		{"buyer cannot reject agent order", MethodCODAgent, StatusPending, StatusRejected, theBuyer},
		{"buyer cannot accept", MethodCODMandiri, StatusPending, StatusOnProcess, theBuyer},
		{"stranger cannot reject", MethodCODMandiri, StatusPending, StatusRejected, stranger},
		{"seller cannot complete", MethodCODMandiri, StatusOnProcess, StatusCompleted, theSellr},
		{"branch admin has no mandiri rights", MethodCODMandiri, StatusPending, StatusOnProcess, bdgAdmin},
		{"branch admin cannot reject mandiri", MethodCODMandiri, StatusPending, StatusRejected, bdgAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTransition(tt.method, tt.from, tt.to, tt.actor, testOrder)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

// Every (method, from, to) triple outside the table must fail for every actor.
func TestCheckTransition_Exhaustive(t *testing.T) {
	allowed := map[FulfillmentMethod]map[OrderStatus][]OrderStatus{
		MethodCODAgent: {
			StatusPending:  {StatusAssigned, StatusRejected},
			StatusAssigned: {StatusVerified, StatusRejected},
			StatusVerified: {StatusCompleted, StatusRejected},
		},
		MethodCODMandiri: {
			StatusPending:   {StatusOnProcess, StatusRejected},
			StatusOnProcess: {StatusCompleted},
		},
	}
	actors := []Actor{bdgAdmin, bdgAgent, jktAdmin, jktAgent, root, theBuyer, theSellr, stranger}

	for _, method := range []FulfillmentMethod{MethodCODAgent, MethodCODMandiri} {
		for _, from := range AllStatuses {
			assert.ElementsMatch(t, allowed[method][from], NextStatuses(method, from), "%s from %s", method, from)

			for _, to := range AllStatuses {
				if contains(allowed[method][from], to) {
					continue
				}
				for _, a := range actors {
					err := CheckTransition(method, from, to, a, testOrder)
					assert.ErrorIs(t, err, ErrInvalidTransition, "%s %s->%s by %s", method, from, to, a.Role)
				}
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range AllStatuses {
		terminal := s == StatusCompleted || s == StatusRejected
		assert.Equal(t, terminal, s.IsTerminal(), s)
		if terminal {
			assert.Empty(t, NextStatuses(MethodCODAgent, s))
			assert.Empty(t, NextStatuses(MethodCODMandiri, s))
		}
	}
}

func TestBranchForLocation(t *testing.T) {
	tests := map[string]string{
		"Bandung":    BranchBandung,
		"Yogyakarta": BranchBandung,
		"Surabaya":   BranchSurabaya,
		"Bali":       BranchSurabaya,
		"medan":      BranchSurabaya,
		"Jakarta":    BranchJakarta,
		"Lainnya":    BranchJakarta,
		"":           BranchJakarta,
	}
	for loc, want := range tests {
		assert.Equal(t, want, BranchForLocation(loc), loc)
	}
}

func contains(list []OrderStatus, s OrderStatus) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
