// Package identity verifies phone-auth ID tokens minted by Firebase.
// Tokens are RS256 JWS signed with Google's rotating securetoken
// certificates; the verifier checks the signature against the cert
// matching the token's kid, then validates issuer, audience, and expiry.
package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v3"

	"civic-connect.backend/internal/domain/entities"
	domainerrors "civic-connect.backend/internal/domain/errors"
)

const googleCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

type keySource interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

type tokenClaims struct {
	Issuer      string `json:"iss"`
	Audience    string `json:"aud"`
	Subject     string `json:"sub"`
	PhoneNumber string `json:"phone_number"`
	ExpiresAt   int64  `json:"exp"`
	IssuedAt    int64  `json:"iat"`
}

// Verifier implements repositories.DelegatedVerifier for Firebase
type Verifier struct {
	projectID string
	keys      keySource
	nowFunc   func() time.Time
}

// NewVerifier creates a verifier for the given Firebase project. An
// empty project ID yields a verifier that reports ErrUnavailable.
func NewVerifier(projectID string) *Verifier {
	return &Verifier{
		projectID: projectID,
		keys:      newGoogleKeySource(http.DefaultClient),
		nowFunc:   time.Now,
	}
}

// Verify checks the token and extracts the phone assertion
func (v *Verifier) Verify(ctx context.Context, idToken string) (*entities.DelegatedIdentity, error) {
	if v.projectID == "" {
		return nil, fmt.Errorf("firebase project not configured: %w", domainerrors.ErrUnavailable)
	}

	parsed, err := jose.ParseSigned(idToken)
	if err != nil {
		return nil, fmt.Errorf("malformed id token: %w", domainerrors.ErrUnauthorized)
	}
	if len(parsed.Signatures) != 1 {
		return nil, fmt.Errorf("unexpected signature count: %w", domainerrors.ErrUnauthorized)
	}

	header := parsed.Signatures[0].Header
	if header.Algorithm != string(jose.RS256) {
		return nil, fmt.Errorf("unexpected signing algorithm %q: %w", header.Algorithm, domainerrors.ErrUnauthorized)
	}

	key, err := v.keys.Key(ctx, header.KeyID)
	if err != nil {
		return nil, err
	}

	payload, err := parsed.Verify(key)
	if err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", domainerrors.ErrUnauthorized)
	}

	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("malformed token claims: %w", domainerrors.ErrUnauthorized)
	}

	now := v.nowFunc()
	switch {
	case claims.Audience != v.projectID:
		return nil, fmt.Errorf("token audience mismatch: %w", domainerrors.ErrUnauthorized)
	case claims.Issuer != "https://securetoken.google.com/"+v.projectID:
		return nil, fmt.Errorf("token issuer mismatch: %w", domainerrors.ErrUnauthorized)
	case claims.ExpiresAt <= now.Unix():
		return nil, fmt.Errorf("token expired: %w", domainerrors.ErrUnauthorized)
	case claims.Subject == "":
		return nil, fmt.Errorf("token missing subject: %w", domainerrors.ErrUnauthorized)
	case claims.PhoneNumber == "":
		return nil, fmt.Errorf("token missing phone number: %w", domainerrors.ErrUnauthorized)
	}

	return &entities.DelegatedIdentity{
		PhoneNumber: claims.PhoneNumber,
		SubjectID:   claims.Subject,
	}, nil
}

// googleKeySource fetches and caches Google's securetoken certificates,
// honoring the max-age of the certs endpoint response.
type googleKeySource struct {
	client *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

func newGoogleKeySource(client *http.Client) *googleKeySource {
	return &googleKeySource{client: client}
}

func (g *googleKeySource) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if time.Now().After(g.expiresAt) || g.keys == nil {
		if err := g.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}

	key, ok := g.keys[kid]
	if !ok {
		// The key may have rotated since the last fetch
		if err := g.refreshLocked(ctx); err != nil {
			return nil, err
		}
		if key, ok = g.keys[kid]; !ok {
			return nil, fmt.Errorf("unknown signing key %q: %w", kid, domainerrors.ErrUnauthorized)
		}
	}
	return key, nil
}

func (g *googleKeySource) refreshLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleCertsURL, nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch signing certs: %w", domainerrors.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signing certs endpoint returned %d: %w", resp.StatusCode, domainerrors.ErrUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var certs map[string]string
	if err := json.Unmarshal(body, &certs); err != nil {
		return err
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, certPEM := range certs {
		key, err := parseCertPublicKey(certPEM)
		if err != nil {
			return err
		}
		keys[kid] = key
	}

	g.keys = keys
	g.expiresAt = time.Now().Add(maxAge(resp.Header.Get("Cache-Control")))
	return nil
}

func parseCertPublicKey(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, errors.New("invalid certificate pem")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("certificate does not carry an rsa key")
	}
	return key, nil
}

func maxAge(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if value, ok := strings.CutPrefix(directive, "max-age="); ok {
			if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}
	return time.Hour
}
