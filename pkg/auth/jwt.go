package auth

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/estate-api/internal/pkg/errors"
)

// AccessTokenCookie is the HttpOnly cookie carrying the access token.
const AccessTokenCookie = "access_token"

// JWTCustomClaims holds the token payload.
type JWTCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 access tokens and manages the
// access-token cookie.
type JWTService struct {
	secret        []byte
	expirationHrs int

	cookiePath     string
	cookieDomain   string
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite http.SameSite
}

// NewJWTService creates a new JWT service.
func NewJWTService(secret string, expirationHrs int) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secret:         []byte(secret),
		expirationHrs:  expirationHrs,
		cookiePath:     "/",
		cookieHTTPOnly: true,
		cookieSameSite: http.SameSiteLaxMode,
	}, nil
}

// SetCookieAttributes overrides the attributes used for the access-token
// cookie. SameSiteNoneMode requires Secure=true to be honored by browsers.
func (s *JWTService) SetCookieAttributes(path, domain string, secure bool, sameSite http.SameSite) {
	if path != "" {
		s.cookiePath = path
	}
	s.cookieDomain = domain
	s.cookieSecure = secure
	s.cookieSameSite = sameSite
	log.Printf("[JWTService] cookie attributes set: Path=%s, Domain=%s, Secure=%v, SameSite=%v",
		s.cookiePath, s.cookieDomain, s.cookieSecure, s.cookieSameSite)
}

// GenerateToken issues a signed access token for the user.
func (s *JWTService) GenerateToken(userID uint, email string) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expirationHrs) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token string and returns its claims.
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthorized)
	}
	return claims, nil
}

// TokenLifetime returns the configured token validity as a duration.
func (s *JWTService) TokenLifetime() time.Duration {
	return time.Duration(s.expirationHrs) * time.Hour
}

// SetAccessTokenCookie writes the access token as an HttpOnly cookie.
func (s *JWTService) SetAccessTokenCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     s.cookiePath,
		Domain:   s.cookieDomain,
		Expires:  time.Now().Add(s.TokenLifetime()),
		Secure:   s.cookieSecure,
		HttpOnly: s.cookieHTTPOnly,
		SameSite: s.cookieSameSite,
	})
}

// ClearAccessTokenCookie expires the access-token cookie.
func (s *JWTService) ClearAccessTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     s.cookiePath,
		Domain:   s.cookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.cookieSecure,
		HttpOnly: s.cookieHTTPOnly,
		SameSite: s.cookieSameSite,
	})
}

// GetAccessTokenFromCookie reads the access token from the request cookie.
func (s *JWTService) GetAccessTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return "", fmt.Errorf("%w: access token cookie missing", apperrors.ErrUnauthorized)
	}
	return cookie.Value, nil
}
