package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie holding the signed session token.
const SessionCookie = "pillpal_session"

// Session is the per-request authentication state.
type Session struct {
	UserID string
}

// Authenticated reports whether the session names a user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

type sessionKey struct{}

// WithSession stores sess on ctx.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the session stored on ctx, or an empty one.
func SessionFrom(ctx context.Context) Session {
	sess, _ := ctx.Value(sessionKey{}).(Session)
	return sess
}

// Sessions issues and verifies HS256 session tokens carried in a cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessions returns a session manager. secret must not be empty.
func NewSessions(secret []byte, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// Establish logs userID in by setting the session cookie.
func (m *Sessions) Establish(w http.ResponseWriter, userID string) error {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie. Safe to call when logged out.
func (m *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read decodes the session from r. Missing, tampered and expired tokens all
// yield an empty session.
func (m *Sessions) Read(r *http.Request) Session {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return Session{}
	}
	userID, err := m.parse(cookie.Value)
	if err != nil {
		return Session{}
	}
	return Session{UserID: userID}
}

func (m *Sessions) parse(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid session token")
	}
	return claims.Subject, nil
}
