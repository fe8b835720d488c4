// Command admin_seed creates the admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. With -demo it also seeds demo users and deposits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/tuantrunglc/ecom-backend-api/internal/config"
	"github.com/tuantrunglc/ecom-backend-api/internal/models"
	"github.com/tuantrunglc/ecom-backend-api/internal/repositories"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/auth"
	"github.com/tuantrunglc/ecom-backend-api/internal/services/wallet"

	"github.com/shopspring/decimal"
)

const demoPassword = "password123"

var demoUsers = []struct{ name, email string }{
	{"Nguyen Van An", "an.nguyen@example.com"},
	{"Tran Thi Binh", "binh.tran@example.com"},
	{"Le Van Cuong", "cuong.le@example.com"},
}

var demoBankAccounts = []string{"0011004455667", "1903555888999", "0451000123456"}

var demoStatuses = []models.DepositStatus{
	models.DepositStatusPending,
	models.DepositStatusApproved,
	models.DepositStatusRejected,
}

func main() {
	demo := flag.Bool("demo", false, "also seed demo users and deposits")
	flag.Parse()

	config.LoadEnv()
	cfg := config.Load()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminName := config.GetEnv("ADMIN_NAME", "Administrator")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	ctx := context.Background()
	store := repositories.NewStore(db)

	admin, err := ensureUser(ctx, store, adminName, adminEmail, adminPassword, models.RoleAdmin)
	if err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin account ready: %s (id %d)", admin.Email, admin.ID)

	if !*demo {
		return
	}

	ledger := wallet.NewService(store, nil, nil)
	for i, du := range demoUsers {
		user, err := ensureUser(ctx, store, du.name, du.email, demoPassword, models.RoleUser)
		if err != nil {
			log.Fatalf("Failed to create demo user %s: %v", du.email, err)
		}

		count := 3 + rand.Intn(3)
		for n := 0; n < count; n++ {
			status := demoStatuses[rand.Intn(len(demoStatuses))]
			d, err := seedDeposit(ctx, store, ledger, user, admin, demoBankAccounts[i%len(demoBankAccounts)], status, n)
			if err != nil {
				log.Fatalf("Failed to seed deposit for %s: %v", du.email, err)
			}
			log.Printf("  %s %s %s", d.ReferenceCode, d.Status, d.Amount.StringFixed(2))
		}
	}
	log.Println("Demo data seeded")
}

func ensureUser(ctx context.Context, store repositories.Store, name, email, password, role string) (*models.User, error) {
	existing, err := store.Users().GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		Password:     hashed,
		Role:         role,
		IsActive:     true,
		TokenVersion: 1,
	}
	if err := store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// seedDeposit inserts one backdated deposit in the given status. Approved
// deposits credit the wallet through ledger in the same transaction, like a
// real approval.
func seedDeposit(ctx context.Context, store repositories.Store, ledger wallet.Service, user, admin *models.User, bankAccount string, status models.DepositStatus, n int) (*models.Deposit, error) {
	createdAt := time.Now().UTC().
		AddDate(0, 0, -(1 + rand.Intn(30))).
		Add(-time.Duration(rand.Intn(24*60)) * time.Minute)
	amount := decimal.NewFromInt(int64(100 + rand.Intn(4901)) * 1000)
	description := fmt.Sprintf("Demo top-up #%d", n+1)

	d := &models.Deposit{
		ReferenceCode: fmt.Sprintf("DEP_%d_%d_%d", user.ID, createdAt.Unix(), n),
		UserID:        user.ID,
		Amount:        amount,
		Description:   &description,
		BankAccount:   bankAccount,
		ProofImage:    "https://placehold.co/600x400.png",
		Status:        status,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}

	err := store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if d.IsProcessed() {
			processedAt := createdAt.Add(time.Duration(1+rand.Intn(48)) * time.Hour)
			note := "Verified against bank statement"
			if status == models.DepositStatusRejected {
				note = "Transfer not found"
			}
			d.ProcessedBy = &admin.ID
			d.ProcessedAt = &processedAt
			d.AdminNote = &note
			d.UpdatedAt = processedAt
		}

		if err := tx.Deposits().Create(ctx, d); err != nil {
			return err
		}
		if err := tx.Deposits().CreateEvent(ctx, &models.DepositEvent{
			DepositID:     d.ID,
			ReferenceCode: d.ReferenceCode,
			Event:         models.DepositEventCreated,
			ToStatus:      models.DepositStatusPending,
			ActorID:       user.ID,
			Amount:        d.Amount,
			CreatedAt:     createdAt,
		}); err != nil {
			return err
		}
		if !d.IsProcessed() {
			return nil
		}

		pending := models.DepositStatusPending
		event := models.DepositEventRejected
		if status == models.DepositStatusApproved {
			event = models.DepositEventApproved
			if err := ledger.Credit(ctx, tx, user.ID, d.Amount); err != nil {
				return err
			}
		}
		return tx.Deposits().CreateEvent(ctx, &models.DepositEvent{
			DepositID:     d.ID,
			ReferenceCode: d.ReferenceCode,
			Event:         event,
			FromStatus:    &pending,
			ToStatus:      status,
			ActorID:       admin.ID,
			Note:          d.AdminNote,
			Amount:        d.Amount,
			CreatedAt:     *d.ProcessedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
