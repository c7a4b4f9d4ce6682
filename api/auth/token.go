package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sportsme/sportsme-backend/env"
)

const accessTokenTTL = 2 * time.Hour

// HS256, signed and verified server-side only. aud carries the client IP the
// token was issued to, sub the user id. aud stays a bare string so the
// authenticator can compare it against the context value directly.
func genAccessToken(aud, sub string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(accessTokenTTL).Unix(),
		"iat": time.Now().Unix(),
		"iss": "https://sportsme.test.com",
		"aud": aud,
		"sub": sub,
	})
	return token.SignedString(env.HS256_SECRET)
}
