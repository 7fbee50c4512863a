package utils

import (
	"fmt"
	"time"

	"github.com/hangilict/estate_crm_end/config"
	"github.com/hangilict/estate_crm_end/models"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte(config.LoadConfig().JWTKey)

// HashPassword 비밀번호 해시 (bcrypt)
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 비밀번호 검증
func VerifyPassword(password string, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateToken JWT 토큰 발급
func GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID.Hex(),
		"name": user.Name,
		"role": string(user.Role),
		"exp":  time.Now().Add(time.Hour * 24 * 7).Unix(), // 7일 유효
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		Logger.Error().Err(err).Msg("토큰 발급 실패")
		return "", err
	}

	return tokenString, nil
}

// ParseToken JWT 토큰 검증 및 파싱
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("유효하지 않은 토큰")
}
