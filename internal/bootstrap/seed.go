package bootstrap

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"sahaaya.org/actionhub/internal/entity"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Donation{},
		&entity.DonationItem{},
		&entity.PointLog{},
		&entity.LedgerEntry{},
		&entity.LeaderboardSnapshot{},
		&entity.SnapshotEntry{},
		&entity.Notification{},
		&entity.Project{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []entity.Role{
		{Name: entity.RoleAdmin, Description: "Hub administrator"},
		{Name: entity.RoleMember, Description: "Contributor"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&entity.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedAdminUser(db *gorm.DB) error {
	var adminRole entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@sahaaya.org"
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Printf("   Email: %s", email)

	return nil
}

// SeedProjects registers the initial drop-off centres so the map is not
// empty on a fresh install.
func SeedProjects(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Project{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	centres := []entity.Project{
		{
			Name:        "Hope Community Centre",
			Description: "Accepts clothes, books and food donations for local shelters.",
			City:        "Chennai",
			Latitude:    13.0827,
			Longitude:   80.2707,
			Active:      true,
		},
		{
			Name:        "Seva Collection Point",
			Description: "Medical supplies and blankets for rural health camps.",
			City:        "Bengaluru",
			Latitude:    12.9716,
			Longitude:   77.5946,
			Active:      true,
		},
		{
			Name:        "Asha Donation Hub",
			Description: "Toys, stationery and school supplies for children's homes.",
			City:        "Hyderabad",
			Latitude:    17.385,
			Longitude:   78.4867,
			Active:      true,
		},
	}

	for _, centre := range centres {
		if err := db.Create(&centre).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d donation centres", len(centres))
	return nil
}
