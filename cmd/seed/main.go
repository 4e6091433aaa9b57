package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"cardvault/internal/config"
	"cardvault/internal/crypto"
	"cardvault/internal/db"
	"cardvault/internal/model"
	"cardvault/internal/repository"
	"cardvault/internal/service"
)

// Seeds a demo admin, a demo user, and two active cards for the user so the
// transfer endpoints can be exercised out of the box.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Card{}, &model.Transaction{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cipherKey, err := cfg.CipherKey()
	if err != nil {
		log.Fatalf("Invalid cipher key: %v", err)
	}
	cardCipher, err := crypto.NewCardCipher(cipherKey)
	if err != nil {
		log.Fatalf("Failed to init card cipher: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	cardRepo := repository.NewCardRepository(gormDB, cardCipher)
	userService := service.NewUserService(userRepo)
	cardService := service.NewCardService(cardRepo, userRepo, nil)

	ctx := context.Background()

	admin, err := userService.Create(ctx, service.CreateUserInput{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "admin123",
		Role:     model.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Created admin %s (%s)", admin.Username, admin.ID)

	user, err := userService.Create(ctx, service.CreateUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "alice123",
		Role:     model.RoleUser,
	})
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	log.Printf("Created user %s (%s)", user.Username, user.ID)

	expiry := time.Now().AddDate(3, 0, 0)
	seedCards := []struct {
		number  string
		balance string
	}{
		{"4000001234567890", "1000.00"},
		{"4000009876543210", "500.00"},
	}

	for _, sc := range seedCards {
		balance, err := decimal.NewFromString(sc.balance)
		if err != nil {
			log.Fatalf("Invalid seed balance %q: %v", sc.balance, err)
		}
		view, err := cardService.Create(ctx, service.CreateCardInput{
			Number:     sc.number,
			OwnerID:    user.ID,
			ExpiryDate: expiry,
			Balance:    balance,
		})
		if err != nil {
			log.Fatalf("Failed to create card: %v", err)
		}
		log.Printf("Created card %s %s balance=%s", view.ID, view.MaskedNumber, view.Balance)
	}

	log.Println("Seed completed")
}
