package main

import (
	"context"
	"log"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/auth"
	"fintrack/pkg/config"
	"fintrack/pkg/logger"
	"fintrack/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@fintrack.local"
	demoPassword = "demo1234"
)

type seedTransaction struct {
	txType      models.TransactionType
	category    string
	amount      float64
	description string
	daysAgo     int
}

var seedTransactions = []seedTransaction{
	{models.TypeIncome, "Salary", 4200.00, "Monthly salary", 3},
	{models.TypeIncome, "Salary", 4200.00, "Monthly salary", 33},
	{models.TypeIncome, "Other", 250.00, "Sold old monitor", 12},
	{models.TypeExpense, "Bills", 1350.00, "Rent", 2},
	{models.TypeExpense, "Bills", 1350.00, "Rent", 32},
	{models.TypeExpense, "Food", 83.40, "Weekly groceries", 1},
	{models.TypeExpense, "Food", 76.15, "Weekly groceries", 8},
	{models.TypeExpense, "Food", 24.90, "Lunch with colleagues", 5},
	{models.TypeExpense, "Transportation", 49.00, "Monthly transit pass", 4},
	{models.TypeExpense, "Entertainment", 15.99, "Streaming subscription", 6},
	{models.TypeExpense, "Healthcare", 32.50, "Pharmacy", 17},
	{models.TypeExpense, "Shopping", 129.99, "Running shoes", 21},
	{models.TypeExpense, "", 18.00, "Parking meter", 9},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	// Reuse the demo user if a previous run created it
	user, err := userRepo.GetByEmail(ctx, demoEmail)
	if err != nil {
		hashed, err := auth.HashPassword(demoPassword)
		if err != nil {
			appLogger.Fatal("Failed to hash password", zap.Error(err))
		}

		now := time.Now()
		user = &models.User{
			ID:        uuid.New(),
			Username:  demoUsername,
			Email:     demoEmail,
			Password:  hashed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			appLogger.Fatal("Failed to create demo user", zap.Error(err))
		}
		appLogger.Info("Demo user created", zap.String("email", demoEmail))
	} else {
		appLogger.Info("Demo user already exists", zap.String("email", demoEmail))
	}

	now := time.Now()
	for _, seed := range seedTransactions {
		tx := &models.Transaction{
			ID:          uuid.New(),
			UserID:      user.ID,
			Type:        seed.txType,
			Category:    seed.category,
			Amount:      seed.amount,
			Description: seed.description,
			Date:        now.AddDate(0, 0, -seed.daysAgo),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := txRepo.Create(ctx, tx); err != nil {
			appLogger.Fatal("Failed to create transaction",
				zap.String("description", seed.description),
				zap.Error(err),
			)
		}
	}

	appLogger.Info("Seeding completed",
		zap.Int("transactions", len(seedTransactions)),
		zap.String("login", demoEmail),
	)
}
