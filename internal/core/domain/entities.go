package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleRoot        Role = "root"
	RoleBranchAdmin Role = "branch_admin"
	RoleAgent       Role = "agent"
	RoleCustomer    Role = "customer"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleRoot, RoleBranchAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// Branches
const (
	BranchJakarta  = "Jakarta"
	BranchBandung  = "Bandung"
	BranchSurabaya = "Surabaya"
	BranchHQ       = "HQ"
)

// Branches lists the operating branches that receive orders
var Branches = []string{BranchJakarta, BranchBandung, BranchSurabaya}

// locationBranch maps a registration city to its serving branch.
// Cities not listed fall back to Jakarta.
var locationBranch = map[string]string{
	"jakarta":    BranchJakarta,
	"bandung":    BranchBandung,
	"yogyakarta": BranchBandung,
	"surabaya":   BranchSurabaya,
	"bali":       BranchSurabaya,
	"medan":      BranchSurabaya,
}

// BranchForLocation returns the branch serving the given city
func BranchForLocation(location string) string {
	if b, ok := locationBranch[strings.ToLower(strings.TrimSpace(location))]; ok {
		return b
	}
	return BranchJakarta
}

// ListingStatus represents the availability of a listing
type ListingStatus string

const (
	ListingAvailable ListingStatus = "Available"
	ListingBooked    ListingStatus = "Booked"
)

// Category of a listed device
type Category string

const (
	CategoryIPhone  Category = "iPhone"
	CategoryAndroid Category = "Android"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	return c == CategoryIPhone || c == CategoryAndroid
}

// Actor is the authenticated account performing an operation
type Actor struct {
	ID     uint
	Role   Role
	Branch string
}
