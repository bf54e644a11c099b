package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/civicdesk/issue-service/internal/domain"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims describes the JWT payload issued by the identity provider.
type Claims struct {
	Subject domain.SubjectType `json:"subject"`
	Name    string             `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 bearer tokens. Issuance happens elsewhere.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier builds a verifier. An empty issuer disables the iss check.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify validates the token and returns the principal it names.
func (v *TokenVerifier) Verify(tokenStr string) (*domain.Principal, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.RegisteredClaims.Subject == "" {
		return nil, ErrInvalidToken
	}
	switch claims.Subject {
	case domain.SubjectTypeCitizen, domain.SubjectTypeAdmin:
	default:
		return nil, ErrInvalidToken
	}

	return &domain.Principal{
		SubjectID: claims.RegisteredClaims.Subject,
		Subject:   claims.Subject,
		Name:      claims.Name,
	}, nil
}
