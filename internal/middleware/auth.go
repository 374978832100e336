package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecret         []byte
	adminPasswordHash []byte
)

// InitAuth configura el secreto JWT y el hash bcrypt de la contraseña de admin
func InitAuth(secret, passwordHash string) {
	jwtSecret = []byte(secret)
	adminPasswordHash = []byte(passwordHash)
}

// AdminLogin valida la contraseña de admin y devuelve un token
func AdminLogin(c *gin.Context) {
	var login struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&login); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contraseña no proporcionada"})
		return
	}

	if len(jwtSecret) == 0 || len(adminPasswordHash) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Acceso de administrador no configurado"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(login.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}

	token, err := GenerateAdminToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// AdminAuth exige un token de admin válido en Authorization: Bearer
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if err := validateAdminToken(tokenString); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			c.Abort()
			return
		}

		c.Set("role", "admin")
		c.Next()
	}
}

func GenerateAdminToken() (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("JWT_SECRET no configurado")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString(jwtSecret)
}

func validateAdminToken(tokenString string) error {
	if len(jwtSecret) == 0 {
		return errors.New("JWT_SECRET no configurado")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return errors.New("token inválido")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return errors.New("el token no es de administrador")
	}
	return nil
}
