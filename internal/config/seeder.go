package config

import (
	"context"
	"errors"
	"log"

	"digital-library/internal/adapters/persistence/models"
	"digital-library/internal/adapters/persistence/repositories"
	"digital-library/internal/core/domain"
	"digital-library/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders. Sample books are only seeded in dev mode.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if s.cfg.IsDev() {
		if err := s.seedSampleBooks(); err != nil {
			return err
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the bootstrap admin from ADMIN_EMAIL / ADMIN_PASSWORD
// when no admin exists yet
func (s *Seeder) seedAdminUser() error {
	users := repositories.NewUserRepository(s.db)
	count, err := users.CountByRole(context.Background(), string(domain.RoleAdmin))
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := s.cfg.Admin
	if admin.Email == "" || admin.Password == "" {
		log.Println("⚠️ Skipping admin seed: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}
	if !password.ValidatePassword(admin.Password) {
		return errors.New("ADMIN_PASSWORD is too short")
	}

	hashedPassword, err := password.Hash(admin.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username: admin.Username,
		Email:    admin.Email,
		Password: hashedPassword,
		Role:     string(domain.RoleAdmin),
		IsActive: true,
	}
	if err := users.Create(context.Background(), user); err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", user.Username)
	return nil
}

func (s *Seeder) seedSampleBooks() error {
	books := []models.Book{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", PublishedYear: year(1937)},
		{Title: "Dune", Author: "Frank Herbert", PublishedYear: year(1965)},
		{Title: "Nineteen Eighty-Four", Author: "George Orwell", PublishedYear: year(1949)},
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", PublishedYear: year(1969)},
		{Title: "Beowulf", Author: "Anonymous"},
	}

	for _, b := range books {
		var existing models.Book
		err := s.db.Where("title = ? AND author = ?", b.Title, b.Author).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		b.Available = 1
		if err := s.db.Create(&b).Error; err != nil {
			return err
		}
		log.Printf("   Created book: %s", b.Title)
	}
	return nil
}

func year(y int) *int {
	return &y
}
