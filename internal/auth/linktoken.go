package auth

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dotworkers/api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// LinkClaims are embedded in Hub deep-link tokens.
type LinkClaims struct {
	Email       string `json:"email"`
	ClientCode  string `json:"clientCode"`
	FirstName   string `json:"firstName"`
	AccessLevel string `json:"accessLevel"`
	jwt.RegisteredClaims
}

// LinkTokenIssuer signs short-lived tokens for Hub deep links, so a digest
// recipient can open a job page without a login round-trip.
type LinkTokenIssuer struct {
	secret string
	expiry time.Duration
	hubURL string
}

// NewLinkTokenIssuer creates a link token issuer from Hub config.
func NewLinkTokenIssuer(cfg *config.HubConfig) *LinkTokenIssuer {
	days := cfg.TokenExpiryDays
	if days <= 0 {
		days = 7
	}
	return &LinkTokenIssuer{
		secret: cfg.TokenSecret,
		expiry: time.Duration(days) * 24 * time.Hour,
		hubURL: strings.TrimRight(cfg.URL, "/"),
	}
}

// GenerateToken signs a token for one recipient. AccessLevel is one of
// "Full", "Client WIP" or "Client Tracker".
func (i *LinkTokenIssuer) GenerateToken(email, clientCode, firstName, accessLevel string) (string, error) {
	if i.secret == "" {
		return "", fmt.Errorf("token secret not configured")
	}

	claims := LinkClaims{
		Email:       email,
		ClientCode:  clientCode,
		FirstName:   firstName,
		AccessLevel: accessLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "dot-workers",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(i.secret))
}

// ValidateToken parses and verifies a link token.
func (i *LinkTokenIssuer) ValidateToken(tokenString string) (*LinkClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LinkClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(i.secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*LinkClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// JobLink builds an authenticated Hub deep link for a job. Falls back to a
// plain link when no secret is configured.
func (i *LinkTokenIssuer) JobLink(jobNumber, email, clientCode, firstName, accessLevel string) string {
	slug := strings.ReplaceAll(jobNumber, " ", "")

	token, err := i.GenerateToken(email, clientCode, firstName, accessLevel)
	if err != nil {
		log.Printf("[auth] link token unavailable: %v", err)
		return fmt.Sprintf("%s/?job=%s", i.hubURL, slug)
	}

	return fmt.Sprintf("%s/job/%s?t=%s", i.hubURL, slug, token)
}

// UpdateLink builds the WIP-view deep link used in channel posts.
func (i *LinkTokenIssuer) UpdateLink(jobNumber string) string {
	slug := strings.ReplaceAll(jobNumber, " ", "")
	return fmt.Sprintf("%s/?view=wip&job=%s", i.hubURL, slug)
}
