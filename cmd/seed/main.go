package main

import (
	"log"
	"os"
	"time"

	"equipreg/internal/database"
	"equipreg/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "equipreg.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data in FK-safe order.
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM equipment_history")
	db.Exec("DELETE FROM equipment")
	db.Exec("DELETE FROM categories")
	db.Exec("DELETE FROM users")

	log.Println("Seeding users...")
	admin := seedUser(db, "admin@example.com", "Administrator", domain.RoleAdmin, "admin123")
	seedUser(db, "user@example.com", "Regular User", domain.RoleUser, "user123")

	log.Println("Seeding categories...")
	categories := map[string]*domain.Category{}
	for _, name := range []string{"Printers", "Monitors", "Laptops", "Network"} {
		c := &domain.Category{Name: name}
		if err := db.Create(c).Error; err != nil {
			log.Fatal("seed category:", err)
		}
		categories[name] = c
	}

	log.Println("Seeding equipment...")
	items := []struct {
		name     string
		number   string
		category string
		room     string
	}{
		{"HP LaserJet M404", "INV-001", "Printers", "101"},
		{"Dell U2419H", "INV-002", "Monitors", "101"},
		{"Lenovo ThinkPad T14", "INV-003", "Laptops", "203"},
		{"Cisco SG350", "INV-004", "Network", "Server Room"},
	}
	for _, item := range items {
		now := time.Now()
		e := &domain.Equipment{
			Name:            item.name,
			InventoryNumber: item.number,
			CategoryID:      categories[item.category].ID,
			Room:            item.room,
			DateAdded:       now,
			UpdatedAt:       now,
		}
		if err := db.Create(e).Error; err != nil {
			log.Fatal("seed equipment:", err)
		}
		if err := db.Create(&domain.EquipmentHistory{
			EquipmentID: e.ID,
			Action:      domain.ActionCreated,
			UserID:      admin.ID,
			Timestamp:   now,
		}).Error; err != nil {
			log.Fatal("seed history:", err)
		}
	}

	log.Println("Seed complete.")
}

func seedUser(db *gorm.DB, email, name string, role domain.UserRole, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash password:", err)
	}
	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatal("seed user:", err)
	}
	return u
}
