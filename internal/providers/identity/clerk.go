package identity

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is where Clerk's frontend SDK keeps the short-lived session token.
const SessionCookie = "__session"

var (
	ErrInvalidToken = errors.New("identity: invalid session token")
	ErrWrongParty   = errors.New("identity: token issued for another origin")
)

// Identity is the authenticated Clerk user behind a request.
type Identity struct {
	UserID    string  `json:"userId"`
	SessionID string  `json:"sessionId"`
	Email     string  `json:"email,omitempty"`
	Name      *string `json:"name,omitempty"`
}

type Resolver interface {
	// Resolve returns nil, nil when the request carries no session token.
	Resolve(r *http.Request) (*Identity, error)
}

type clerkClaims struct {
	jwt.RegisteredClaims
	SessionID       string `json:"sid"`
	AuthorizedParty string `json:"azp"`
	// present only when the Clerk session token template adds them
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ClerkResolver struct {
	key     *rsa.PublicKey
	parties map[string]struct{}
	leeway  time.Duration
}

// NewClerkResolver verifies session tokens networklessly against the instance's PEM public key.
func NewClerkResolver(pemKey string, authorizedParties []string) (*ClerkResolver, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("parse CLERK_JWT_KEY: %w", err)
	}

	parties := map[string]struct{}{}
	for _, p := range authorizedParties {
		p = strings.TrimRight(strings.TrimSpace(p), "/")
		if p != "" {
			parties[p] = struct{}{}
		}
	}
	return &ClerkResolver{key: key, parties: parties, leeway: 5 * time.Second}, nil
}

func (c *ClerkResolver) Resolve(r *http.Request) (*Identity, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}

	claims := &clerkClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.leeway),
	)
	if err != nil || tok == nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if len(c.parties) > 0 && claims.AuthorizedParty != "" {
		if _, ok := c.parties[strings.TrimRight(claims.AuthorizedParty, "/")]; !ok {
			return nil, ErrWrongParty
		}
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	id := &Identity{
		UserID:    claims.Subject,
		SessionID: claims.SessionID,
		Email:     claims.Email,
	}
	if claims.Name != "" {
		name := claims.Name
		id.Name = &name
	}
	return id, nil
}

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); raw != "" {
			return raw
		}
	}
	if ck, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}
