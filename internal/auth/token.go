package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeRefresh       TokenType = "refresh"
	TokenTypeEmailVerify   TokenType = "email_verify"
	TokenTypePasswordReset TokenType = "password_reset"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims - набор полей токена. Role заполняется только у access-токенов.
type Claims struct {
	jwt.RegisteredClaims
	Role string    `json:"role,omitempty"`
	Type TokenType `json:"type"`
}

// Secrets - отдельный секрет на каждую категорию токенов:
// access, refresh и общий для писем (email_verify, password_reset).
type Secrets struct {
	Access  string
	Refresh string
	Email   string
}

type TokenService struct {
	secrets Secrets
	now     func() time.Time
}

func NewTokenService(secrets Secrets) (*TokenService, error) {
	if secrets.Access == "" || secrets.Refresh == "" || secrets.Email == "" {
		return nil, errors.New("all token signing secrets must be set")
	}
	return &TokenService{secrets: secrets, now: time.Now}, nil
}

// WithClock подменяет источник времени (тесты)
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *TokenService) secretFor(tokenType TokenType) ([]byte, error) {
	switch tokenType {
	case TokenTypeAccess:
		return []byte(s.secrets.Access), nil
	case TokenTypeRefresh:
		return []byte(s.secrets.Refresh), nil
	case TokenTypeEmailVerify, TokenTypePasswordReset:
		return []byte(s.secrets.Email), nil
	default:
		return nil, fmt.Errorf("unknown token type %q", tokenType)
	}
}

// Issue подписывает токен HS256 с subject, типом, ролью (для access) и абсолютным сроком жизни
func (s *TokenService) Issue(subject string, tokenType TokenType, role string, ttl time.Duration) (string, error) {
	secret, err := s.secretFor(tokenType)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: tokenType,
	}
	if tokenType == TokenTypeAccess {
		claims.Role = role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate проверяет подпись секретом своего типа, срок жизни и совпадение claim "type".
// Возвращает ErrTokenExpired или ErrTokenInvalid.
func (s *TokenService) Validate(tokenString string, tokenType TokenType) (*Claims, error) {
	secret, err := s.secretFor(tokenType)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid || claims.Type != tokenType || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
