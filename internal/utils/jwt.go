package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for refresh tokens
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/iliyamo/school-help-desk/internal/model"
)

// ErrInvalidAccessToken is returned for any access token that fails
// signature, format or expiry checks. Callers cannot tell which check
// failed.
var ErrInvalidAccessToken = errors.New("invalid access token")

// Claims is the strongly typed view of a validated access token. It is
// produced once by ParseAccessToken and handed down the call chain; the raw
// JWT is never re-parsed after middleware.
type Claims struct {
	UserID uint64
	Role   model.Role
}

// AccessToken represents a signed HS256 JWT along with its expiry. The
// Token field is what goes into the Authorization header on protected
// endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long-lived opaque token used to obtain new
// access tokens. Raw goes back to the client; only a SHA-256 hash of it is
// stored in the database.
type RefreshToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. Standard claims
// are sub (user id), role, exp and iat. TTL is given in minutes.
func NewAccessToken(secret string, userID uint64, role model.Role, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(userID, 10),
		"role": string(role),
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken validates the signature and expiry of a serialized JWT
// and returns its typed claims. The signing method must be HMAC; any
// tampering with header or payload invalidates the signature.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAccessToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidAccessToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidAccessToken
	}
	var uid uint64
	switch sub := mc["sub"].(type) {
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Claims{}, ErrInvalidAccessToken
		}
		uid = n
	case float64:
		// numeric subs appear when tokens were minted with an integer claim
		uid = uint64(sub)
	default:
		return Claims{}, ErrInvalidAccessToken
	}
	role, ok := mc["role"].(string)
	if !ok || (role != string(model.RoleStudent) && role != string(model.RoleAdmin)) {
		return Claims{}, ErrInvalidAccessToken
	}
	return Claims{UserID: uid, Role: model.Role(role)}, nil
}

// NewRefreshToken returns an opaque token built from 64 bytes of
// cryptographically secure randomness, base64 encoded, and its expiration.
// The token carries no claims; it is a lookup key only.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: base64.RawURLEncoding.EncodeToString(buf),
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hash of the raw refresh token as a hex
// string. Storing only the hash prevents attackers from using stolen
// database entries to refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
