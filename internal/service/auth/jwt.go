package auth

import (
	"errors"
	"fmt"
	"time"

	"KidLearn/internal/app_errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AccessTokenType = "access"

var signingMethod = jwt.SigningMethodHS256

// JWTManager verifies the access tokens issued by the account service. It
// can also mint them, which local runs and tests rely on.
type JWTManager struct {
	secretKey string
	accessTTL time.Duration
	issuer    string
	now       func() time.Time
}

func NewJWTManager(secretKey, issuer string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: secretKey,
		accessTTL: accessTTL,
		issuer:    issuer,
		now:       time.Now,
	}
}

type AccessTokenClaims struct {
	TokenType string    `json:"token_type"`
	UserID    uuid.UUID `json:"user_id"`
	Roles     []string  `json:"roles"`
	jwt.RegisteredClaims
}

func (j *JWTManager) keyFunc(token *jwt.Token) (any, error) {
	if token.Method != signingMethod {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *JWTManager) AccessClaims(tokenStr string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, j.keyFunc,
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, app_errors.ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	if claims.TokenType != AccessTokenType {
		return nil, fmt.Errorf("wrong token type: expected %q, got %q", AccessTokenType, claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("access token has no user id")
	}
	return claims, nil
}

func (j *JWTManager) GenerateAccessToken(userID uuid.UUID, roles []string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(signingMethod, AccessTokenClaims{
		TokenType: AccessTokenType,
		UserID:    userID,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    j.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("access token signing failed: %w", err)
	}
	return signed, nil
}
