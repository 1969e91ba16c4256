// Command admintoken prints an admin JWT for the report endpoints, signed
// with the JWT_SECRET of the current environment.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"alumind-feedback/internal/config"
	"alumind-feedback/internal/middleware"
)

func main() {
	subject := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	token, err := middleware.IssueAdminToken(cfg.Auth.JWTSecret, *subject, *ttl)
	if err != nil {
		log.Fatalf("❌ Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
