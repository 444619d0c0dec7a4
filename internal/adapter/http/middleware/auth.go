package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/security"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

const callerKey = "caller"

type Auth struct {
	tokens *security.TokenIssuer
	users  usecase.UserRepo
}

func NewAuth(tokens *security.TokenIssuer, users usecase.UserRepo) *Auth {
	return &Auth{tokens: tokens, users: users}
}

// Authenticate resolves the bearer token to a caller. The user row is
// re-read so a deactivated account loses access immediately, not at
// token expiry.
func (a *Auth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		caller, err := a.tokens.Parse(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		u, err := a.users.GetByID(c.Request.Context(), caller.ID)
		if err != nil || !u.Active {
			abortUnauthorized(c, "account disabled or unknown")
			return
		}
		// Role comes from the row, not the token: demotions apply at once.
		c.Set(callerKey, entity.Caller{ID: u.ID, Role: u.Role})
		c.Next()
	}
}

// Optional resolves a caller when a bearer token is present but lets
// anonymous requests through. Public listings use it to widen results
// for admins.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			if caller, err := a.tokens.Parse(strings.TrimPrefix(auth, "Bearer ")); err == nil {
				if u, err := a.users.GetByID(c.Request.Context(), caller.ID); err == nil && u.Active {
					c.Set(callerKey, entity.Caller{ID: u.ID, Role: u.Role})
				}
			}
		}
		c.Next()
	}
}

func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CallerFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			return
		}
		c.Next()
	}
}

// CallerFrom returns the authenticated caller; zero value if the route
// skipped Authenticate.
func CallerFrom(c *gin.Context) entity.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(entity.Caller); ok {
			return caller
		}
	}
	return entity.Caller{}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
}
