// Package rtc issues room names and access tokens for the external
// call infrastructure. The rest of the system treats the token and
// room name as an opaque pair.
package rtc

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long an issued access token stays valid.
const TokenTTL = time.Hour

// Issuer signs access tokens for call rooms.
type Issuer struct {
	SigningKey string
}

func NewIssuer(signingKey string) *Issuer {
	return &Issuer{SigningKey: signingKey}
}

// RoomName builds a unique room identifier for a caller/model pair.
func RoomName(userID, modelID int) string {
	return fmt.Sprintf("nexbuzzer-%d-%d-%s", userID, modelID, uuid.NewString())
}

// AccessToken returns a signed token granting the identity entry to
// the named room.
func (i *Issuer) AccessToken(identity, roomName string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  identity,
		"room": roomName,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(i.SigningKey))
}
