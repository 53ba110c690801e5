package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

type contextKey string

const VisitorIDKey contextKey = "visitorID"

const (
	VisitorCookieName = "course_visitor"
	visitorMaxAge     = 86400 * 30 // 30 days
)

// Signer issues and checks visitor cookies of the form id|issuedAt|mac.
type Signer struct {
	key []byte
	now func() time.Time
}

func NewSigner(secret string) *Signer {
	key := blake2b.Sum256([]byte(secret))
	return &Signer{key: key[:], now: time.Now}
}

func (s *Signer) mac(value string) string {
	h, err := blake2b.New256(s.key)
	if err != nil {
		// only possible with a key longer than 64 bytes
		panic(err)
	}
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func (s *Signer) CreateVisitorCookie(visitorID string) *http.Cookie {
	value := fmt.Sprintf("%s|%d", visitorID, s.now().Unix())
	return &http.Cookie{
		Name:     VisitorCookieName,
		Value:    value + "|" + s.mac(value),
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   visitorMaxAge,
	}
}

func (s *Signer) ValidateVisitorCookie(cookie *http.Cookie) (string, error) {
	if cookie == nil {
		return "", fmt.Errorf("no visitor cookie")
	}

	parts := strings.Split(cookie.Value, "|")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid visitor cookie format")
	}

	value := parts[0] + "|" + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.mac(value))) != 1 {
		return "", fmt.Errorf("invalid visitor cookie signature")
	}

	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid visitor cookie timestamp")
	}
	if s.now().Sub(time.Unix(issued, 0)) > visitorMaxAge*time.Second {
		return "", fmt.Errorf("visitor cookie expired")
	}
	return parts[0], nil
}

// EnsureVisitor attaches a visitor id to every request, issuing a fresh cookie
// when the request has none or an invalid one.
func (s *Signer) EnsureVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, _ := r.Cookie(VisitorCookieName)
		visitorID, err := s.ValidateVisitorCookie(cookie)
		if err != nil {
			visitorID = uuid.NewString()
			http.SetCookie(w, s.CreateVisitorCookie(visitorID))
		}

		ctx := context.WithValue(r.Context(), VisitorIDKey, visitorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetVisitorID(r *http.Request) string {
	if val := r.Context().Value(VisitorIDKey); val != nil {
		return val.(string)
	}
	return ""
}

// WithVisitorID returns a copy of r carrying visitorID, for handlers tested
// without the middleware.
func WithVisitorID(r *http.Request, visitorID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), VisitorIDKey, visitorID))
}
