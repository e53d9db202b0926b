package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"civic-connect.backend/pkg/jwt"
)

func main() {
	userID := flag.String("user-id", "", "user UUID to embed in the token (random when empty)")
	mobile := flag.String("mobile", "9876543210", "normalized 10-digit mobile number")
	secret := flag.String("secret", "change-this-in-production", "JWT signing secret")
	expiry := flag.Duration("expiry", 30*24*time.Hour, "session token lifetime")
	flag.Parse()

	id := uuid.New()
	if *userID != "" {
		parsed, err := uuid.Parse(*userID)
		if err != nil {
			log.Fatalf("invalid user-id: %v", err)
		}
		id = parsed
	}

	token, err := jwt.NewJWTService(*secret, *expiry).Generate(id, *mobile)
	if err != nil {
		log.Fatalf("failed to generate session token: %v", err)
	}

	fmt.Println("Generated session token")
	fmt.Printf("USER_ID=%s\n", id)
	fmt.Printf("TOKEN=%s\n", token)
}
