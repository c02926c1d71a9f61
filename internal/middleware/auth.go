package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/response"
)

const actorKey = "actor"

// Claims is the token payload issued by the login service
type Claims struct {
	UserID json.Number `json:"user_id"`
	Role   string      `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates HS256 bearer tokens and stores the caller as a domain.Actor
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("access_token") // websocket clients cannot set headers
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				abortUnauthorized(c, "Invalid authorization header format")
				return
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		actor, err := ParseActor(tokenString, jwtSecret)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		actor.IPAddress = c.ClientIP()

		SetActor(c, actor)
		c.Next()
	}
}

// ParseActor verifies tokenString and extracts the user id and role claims
func ParseActor(tokenString, jwtSecret string) (domain.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, jwt.ErrTokenInvalidClaims
	}

	id, err := strconv.ParseUint(claims.UserID.String(), 10, 64)
	if err != nil || id == 0 {
		return domain.Actor{}, jwt.ErrTokenInvalidClaims
	}
	role := domain.Role(claims.Role)
	if !role.IsValid() {
		return domain.Actor{}, jwt.ErrTokenInvalidClaims
	}
	return domain.Actor{UserID: uint(id), Role: role}, nil
}

// RequireRoles rejects callers whose role is not listed
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "You do not have permission to perform this action")
		c.Abort()
	}
}

// ActorFrom returns the authenticated caller set by Auth
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

// SetActor stores actor on the context; used by Auth and by handler tests
func SetActor(c *gin.Context, actor domain.Actor) {
	c.Set(actorKey, actor)
}

func abortUnauthorized(c *gin.Context, message string) {
	response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, message)
	c.Abort()
}
