// Command admin-token mints a bearer token for the admin routes, signed
// with ADMIN_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tour-booking/internal/auth"
	"tour-booking/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	subject := flag.String("sub", "backoffice", "token subject")
	role := flag.String("role", cfg.Auth.AdminRole, "role claim")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	token, err := auth.IssueToken(cfg.Auth.JWTSecret, *subject, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "admin-token: %v (is ADMIN_JWT_SECRET set?)\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
