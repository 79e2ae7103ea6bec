package config

import (
	"fmt"
	"log"

	"gadgethub-api/internal/adapters/persistence/models"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/password"

	"gorm.io/gorm"
)

// DemoPassword is the password every seeded account gets
const DemoPassword = "123456"

// DemoSellerEmail owns all seeded listings
const DemoSellerEmail = "penjual@gmail.com"

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders. Tables that already hold rows are left alone.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedUsers(); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.seedListings(); err != nil {
		return fmt.Errorf("seed listings: %w", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

type seedUser struct {
	email  string
	role   domain.Role
	branch string
}

var seedUsers = []seedUser{
	{"root@hq.com", domain.RoleRoot, domain.BranchHQ},
	{"admin.jkt@gadgethub.com", domain.RoleBranchAdmin, domain.BranchJakarta},
	{"agent.jkt@gadgethub.com", domain.RoleAgent, domain.BranchJakarta},
	{"admin.bdg@gadgethub.com", domain.RoleBranchAdmin, domain.BranchBandung},
	{"agent.bdg@gadgethub.com", domain.RoleAgent, domain.BranchBandung},
	{"admin.sby@gadgethub.com", domain.RoleBranchAdmin, domain.BranchSurabaya},
	{"agent.sby@gadgethub.com", domain.RoleAgent, domain.BranchSurabaya},
	{"customer@gmail.com", domain.RoleCustomer, domain.BranchJakarta},
	{DemoSellerEmail, domain.RoleCustomer, domain.BranchJakarta},
}

func (s *Seeder) seedUsers() error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := password.Hash(DemoPassword)
	if err != nil {
		return err
	}

	users := make([]*models.User, 0, len(seedUsers))
	for _, u := range seedUsers {
		users = append(users, &models.User{
			Email:    u.email,
			Password: hash,
			Role:     u.role,
			Branch:   u.branch,
			Location: u.branch,
			Verified: true,
		})
	}
	if err := s.db.Create(&users).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d accounts", len(users))
	return nil
}

type seedListing struct {
	title    string
	price    int64
	branch   string
	category domain.Category
	brand    string
	urgent   bool
}

var seedListings = []seedListing{
	{"iPhone 11 (JKT)", 3_000_000, domain.BranchJakarta, domain.CategoryIPhone, "iPhone 11", false},
	{"Samsung S24 Ultra (JKT)", 12_000_000, domain.BranchJakarta, domain.CategoryAndroid, "Samsung", true},
	{"iPhone 15 Pro (JKT)", 16_000_000, domain.BranchJakarta, domain.CategoryIPhone, "iPhone 15", false},
	{"Pixel 8 (JKT)", 8_000_000, domain.BranchJakarta, domain.CategoryAndroid, "Google Pixel", true},
	{"Xiaomi 14 (JKT)", 9_000_000, domain.BranchJakarta, domain.CategoryAndroid, "Xiaomi", false},
	{"iPhone XR (JKT)", 2_500_000, domain.BranchJakarta, domain.CategoryIPhone, "iPhone SE", true},
	{"Infinix GT (JKT)", 3_000_000, domain.BranchJakarta, domain.CategoryAndroid, "Infinix", false},
	{"Vivo V30 (JKT)", 5_000_000, domain.BranchJakarta, domain.CategoryAndroid, "Vivo", false},
	{"Oppo Reno (JKT)", 4_500_000, domain.BranchJakarta, domain.CategoryAndroid, "Oppo", true},
	{"iPhone 12 (JKT)", 5_000_000, domain.BranchJakarta, domain.CategoryIPhone, "iPhone 12", false},

	{"iPhone 13 (BDG)", 7_000_000, domain.BranchBandung, domain.CategoryIPhone, "iPhone 13", false},
	{"Samsung S23 (BDG)", 9_000_000, domain.BranchBandung, domain.CategoryAndroid, "Samsung", true},
	{"iPhone 14 Plus (BDG)", 10_000_000, domain.BranchBandung, domain.CategoryIPhone, "iPhone 14", false},
	{"Pixel 7 (BDG)", 5_000_000, domain.BranchBandung, domain.CategoryAndroid, "Google Pixel", true},
	{"Poco F5 (BDG)", 4_000_000, domain.BranchBandung, domain.CategoryAndroid, "Xiaomi", false},
	{"iPhone 11 Pro (BDG)", 4_500_000, domain.BranchBandung, domain.CategoryIPhone, "iPhone 11", false},
	{"Samsung A55 (BDG)", 3_800_000, domain.BranchBandung, domain.CategoryAndroid, "Samsung", false},
	{"Vivo X80 (BDG)", 6_000_000, domain.BranchBandung, domain.CategoryAndroid, "Vivo", true},
	{"Oppo Find X (BDG)", 7_500_000, domain.BranchBandung, domain.CategoryAndroid, "Oppo", false},
	{"iPhone SE 3 (BDG)", 3_200_000, domain.BranchBandung, domain.CategoryIPhone, "iPhone SE", true},

	{"iPhone 16 (SBY)", 18_000_000, domain.BranchSurabaya, domain.CategoryIPhone, "iPhone 16", false},
	{"Samsung Z Flip (SBY)", 8_000_000, domain.BranchSurabaya, domain.CategoryAndroid, "Samsung", true},
	{"iPhone 12 Pro (SBY)", 6_500_000, domain.BranchSurabaya, domain.CategoryIPhone, "iPhone 12", false},
	{"Xiaomi 13T (SBY)", 5_500_000, domain.BranchSurabaya, domain.CategoryAndroid, "Xiaomi", false},
	{"iPhone 15 Plus (SBY)", 13_000_000, domain.BranchSurabaya, domain.CategoryIPhone, "iPhone 15", true},
	{"Asus ROG (SBY)", 11_000_000, domain.BranchSurabaya, domain.CategoryAndroid, "Asus", false},
	{"iPhone XS (SBY)", 3_000_000, domain.BranchSurabaya, domain.CategoryIPhone, "iPhone SE", false},
	{"Samsung S22 (SBY)", 5_000_000, domain.BranchSurabaya, domain.CategoryAndroid, "Samsung", true},
	{"Pixel 6 (SBY)", 3_500_000, domain.BranchSurabaya, domain.CategoryAndroid, "Google Pixel", false},
	{"Poco X6 (SBY)", 3_200_000, domain.BranchSurabaya, domain.CategoryAndroid, "Xiaomi", true},
}

func (s *Seeder) seedListings() error {
	var count int64
	if err := s.db.Model(&models.Listing{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var seller models.User
	if err := s.db.Where("email = ?", DemoSellerEmail).First(&seller).Error; err != nil {
		log.Printf("⚠️ Skipping listing seed: %s not found", DemoSellerEmail)
		return nil
	}

	listings := make([]*models.Listing, 0, len(seedListings))
	for _, l := range seedListings {
		listings = append(listings, &models.Listing{
			Title:        l.title,
			Description:  "Unit second, kondisi normal, siap COD.",
			Price:        l.price,
			Category:     l.category,
			Brand:        l.brand,
			SellerID:     seller.ID,
			BranchOrigin: l.branch,
			Status:       domain.ListingAvailable,
			IsUrgent:     l.urgent,
			Negotiable:   true,
		})
	}
	if err := s.db.Create(&listings).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d listings", len(listings))
	return nil
}
