package integration

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func (s *StepsContext) sessionToken(email string, secret []byte, expiresAt time.Time) error {
	user, err := s.user(email)
	if err != nil {
		return err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.id,
		"email": user.email,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	})
	s.authToken, err = token.SignedString(secret)
	return err
}

func (s *StepsContext) iUseASessionTokenFor(email string) error {
	return s.sessionToken(email, s.tc.JWTSecret, time.Now().Add(time.Hour))
}

func (s *StepsContext) iUseAnExpiredSessionTokenFor(email string) error {
	return s.sessionToken(email, s.tc.JWTSecret, time.Now().Add(-time.Minute))
}

func (s *StepsContext) iUseASessionTokenSignedWith(email, secret string) error {
	return s.sessionToken(email, []byte(secret), time.Now().Add(time.Hour))
}
