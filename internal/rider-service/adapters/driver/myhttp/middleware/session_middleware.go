package middleware

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"rider/internal/rider-service/adapters/driver/myhttp/handle"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	SessionCookie = "rider_session"
	hkdfInfo      = "rider form session cookie v1"
)

// SessionMiddleware gives every request a form session id, carried in a
// signed cookie.
type SessionMiddleware struct {
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionMiddleware(secret string, ttl time.Duration, secure bool) (*SessionMiddleware, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	return &SessionMiddleware{
		key:    key,
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}, nil
}

// DeriveKey stretches the configured secret into a 32 byte HS256 key.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("empty session secret")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}

func (sm *SessionMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, exp, ok := sm.read(r)
		if !ok || exp.Sub(sm.now()) < sm.ttl/2 {
			if !ok {
				sid = uuid.NewString()
			}
			if err := sm.issue(w, sid); err != nil {
				handle.JsonError(w, http.StatusInternalServerError, fmt.Errorf("Failed to issue session"))
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(handle.ContextWithSessionID(r.Context(), sid)))
	})
}

func (sm *SessionMiddleware) read(r *http.Request) (string, time.Time, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", time.Time{}, false
	}

	token, err := jwt.Parse(c.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return sm.key, nil
	})
	if err != nil || !token.Valid {
		return "", time.Time{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, false
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", time.Time{}, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", time.Time{}, false
	}

	return sid, time.Unix(int64(exp), 0), true
}

func (sm *SessionMiddleware) issue(w http.ResponseWriter, sid string) error {
	exp := sm.now().Add(sm.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
	})

	signed, err := token.SignedString(sm.key)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
