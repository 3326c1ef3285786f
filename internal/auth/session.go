package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/noxus/leadops/internal/models"
)

const issuer = "leadops"

var ErrSessionExpired = errors.New("session expired")

// SessionClaims is the payload of the crm_session cookie.
type SessionClaims struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
	jwt.RegisteredClaims
}

// Session converts the verified claims back into a session.
func (c *SessionClaims) Session() models.Session {
	s := models.Session{User: c.User, Token: c.Token}
	if c.ExpiresAt != nil {
		s.Expires = c.ExpiresAt.Time
	}
	return s
}

// SessionCodec signs and verifies sessions as HS256 JWTs.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCodec(secret string, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Key is the HMAC key, shared with the cookie-verifying middleware.
func (c *SessionCodec) Key() []byte { return c.secret }

func (c *SessionCodec) TTL() time.Duration { return c.ttl }

// Issue starts a session for user that expires after the codec's TTL.
func (c *SessionCodec) Issue(user models.User, token string) (string, models.Session, error) {
	now := c.now()
	sess := models.Session{User: user, Token: token, Expires: now.Add(c.ttl)}

	claims := SessionClaims{
		User:  user,
		Token: token,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.Expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", models.Session{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, sess, nil
}

// Parse verifies raw. Expired sessions return ErrSessionExpired, anything
// else unverifiable returns ErrUnauthenticated.
func (c *SessionCodec) Parse(raw string) (models.Session, error) {
	if raw == "" {
		return models.Session{}, ErrUnauthenticated
	}
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Session{}, ErrSessionExpired
		}
		return models.Session{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	sess := claims.Session()
	if sess.Expired(c.now()) {
		return models.Session{}, ErrSessionExpired
	}
	return sess, nil
}

func (c *SessionCodec) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return c.secret, nil
}
