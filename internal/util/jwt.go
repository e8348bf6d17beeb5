package util

import (
	"errors"
	"evaluation_backend/internal/model"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	EmployeeID  int                `json:"employee_id"`
	Username    string             `json:"name"`
	DisplayName string             `json:"displayName"`
	Role        model.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateJWT(employee *model.Employee, secret string, expiration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		EmployeeID:  employee.ID,
		Username:    employee.Username,
		DisplayName: employee.Name,
		Role:        employee.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(employee.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
