// Command devtoken mints HS256 bearer tokens for local testing against a
// server configured with AUTH_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	sub := flag.String("sub", "", "user id placed in the sub claim (required)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	issuer := flag.String("iss", os.Getenv("AUTH_JWT_ISSUER"), "issuer claim")
	audience := flag.String("aud", os.Getenv("AUTH_JWT_AUDIENCE"), "audience claim")
	flag.Parse()

	secret := os.Getenv("AUTH_JWT_SECRET")
	if *sub == "" || secret == "" {
		fmt.Fprintln(os.Stderr, "usage: AUTH_JWT_SECRET=... devtoken -sub <user-id> [-ttl 24h]")
		os.Exit(2)
	}

	tok, err := issue([]byte(secret), *sub, *issuer, *audience, *ttl, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok)
}

func issue(secret []byte, sub, issuer, audience string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
