package main

import (
	"flag"
	"fmt"
	"time"

	"todo_api/internal/auth"
	"todo_api/internal/config"
	"todo_api/internal/logger"
)

// token prints a bearer token for the mutating todo routes
func main() {
	subject := flag.String("sub", "cli", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := config.JWTSecret()
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}

	token, err := auth.NewIssuer(secret).WithTTL(*ttl).Generate(*subject)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}
