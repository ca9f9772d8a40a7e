// Command anonkey mints the bearer token the landing page sends to the waitlist API.
//
//	WAITLIST_JWT_SECRET=... go run ./cmd/anonkey -role anon -ttl 87600h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/waitlist/internal/auth"
	"github.com/mmynk/waitlist/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	role := flag.String("role", auth.RoleAnon, "token role: anon or service_role")
	ttl := flag.Duration("ttl", 10*365*24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("WAITLIST_JWT_SECRET")
	if secret == "" {
		slog.Error("WAITLIST_JWT_SECRET is empty")
		os.Exit(1)
	}

	token, err := auth.NewJWTManager(secret).Generate(*role, *ttl)
	if err != nil {
		slog.Error("Failed to mint token", "role", *role, "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
