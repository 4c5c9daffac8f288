package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/wodwise/gateway/internal/auth"
)

func main() {
	// load environment
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// connect to database
	dbConnString := os.Getenv("SUPABASE_CONNECTION_STRING")
	if dbConnString == "" {
		log.Fatal("SUPABASE_CONNECTION_STRING not set")
	}

	dbPool, err := pgxpool.New(context.Background(), dbConnString)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	ctx := context.Background()

	// optionally pro via CLI arg
	tier := "free"
	if len(os.Args) > 1 && os.Args[1] == "pro" {
		tier = "pro"
	}

	// create or find test athlete
	testEmail := fmt.Sprintf("test-%s@wodwise.dev", tier)
	var userID string

	err = dbPool.QueryRow(ctx,
		"SELECT user_id FROM athlete_profiles WHERE subscription_tier = $1 AND experience_level = 'test'", tier,
	).Scan(&userID)

	if err != nil {
		// create test athlete profile
		userID = uuid.New().String()
		_, err = dbPool.Exec(ctx, `
			INSERT INTO athlete_profiles (user_id, subscription_tier, experience_level, created_at, updated_at)
			VALUES ($1, $2, 'test', NOW(), NOW())
		`, userID, tier)

		if err != nil {
			log.Fatalf("Failed to create test athlete: %v", err)
		}
		fmt.Printf("✅ Created %s-tier test athlete (ID: %s)\n", tier, userID)
	} else {
		fmt.Printf("✅ Using existing %s-tier test athlete (ID: %s)\n", tier, userID)
	}

	// generate JWT token
	token, err := auth.GenerateDevToken(userID, testEmail)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Printf("\n🔑 Test JWT Token:\n%s\n\n", token)
	fmt.Printf("Export this token for the dev console:\nexport WODWISE_TOKEN=\"%s\"\n", token)
}
