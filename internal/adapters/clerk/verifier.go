package clerk

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"techconnect/internal/domain"
)

// tokenClaims are the Clerk session token claims this service reads. Clerk
// omits the audience claim on session tokens, so audience is deliberately
// not validated.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	ImageURL   string `json:"image_url"`
}

type verifier struct {
	jwks   *JWKSClient
	issuer string
}

// NewVerifier returns a domain.TokenVerifier that validates RS256 tokens
// against the JWKS key set and the expected issuer.
func NewVerifier(jwks *JWKSClient, issuer string) domain.TokenVerifier {
	return &verifier{jwks: jwks, issuer: issuer}
}

func (v *verifier) Verify(ctx context.Context, tokenString string) (*domain.ExternalIdentity, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token header has no kid")
		}
		return v.jwks.SigningKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, domain.ErrMissingSubject
	}
	return &domain.ExternalIdentity{
		Subject:   claims.Subject,
		Email:     claims.Email,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		ImageURL:  claims.ImageURL,
	}, nil
}
