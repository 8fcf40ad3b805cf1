package config

import (
	"os"
	"strconv"

	"tatami/internal/identity"
	"tatami/internal/identity/similarity"
)

// Server captures process-level configuration. Values come from the
// environment so deployments stay twelve-factor.
type Server struct {
	Addr              string
	DatabaseURL       string
	JWTSigningKey     string
	MatchThreshold    float64
	SingleMatchPolicy identity.SingleMatchPolicy
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TATAMI_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	threshold := similarity.DefaultNameMatchThreshold
	if raw := os.Getenv("MATCH_THRESHOLD"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 && v < 1 {
			threshold = v
		}
	}

	policy := identity.SingleMatchAutoAccept
	if os.Getenv("SINGLE_MATCH_POLICY") == string(identity.SingleMatchAlwaysAsk) {
		policy = identity.SingleMatchAlwaysAsk
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:              addr,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSigningKey:     jwtSigningKey,
		MatchThreshold:    threshold,
		SingleMatchPolicy: policy,
	}
}
