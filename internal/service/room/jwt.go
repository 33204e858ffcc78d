package room

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	RoomId string `json:"room_id"`
	UserId string `json:"user_id"`
}

func (s *service) generateJWT(roomId, userId string) (string, error) {
	claims := jwt.MapClaims{
		"room_id": roomId,
		"user_id": userId,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

func (s *service) parseJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token")
	}

	roomId, ok := claims["room_id"].(string)
	if !ok {
		return nil, errors.New("invalid token")
	}
	userId, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token")
	}

	return &Claims{
		RoomId: roomId,
		UserId: userId,
	}, nil
}
