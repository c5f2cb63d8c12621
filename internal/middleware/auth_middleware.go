package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Adi-ops16/Swift-Tix-server/internal/helpers"
	"github.com/Adi-ops16/Swift-Tix-server/internal/identity"
)

// AuthMiddleware rejects requests without a valid bearer credential and
// exposes the verified email to handlers under "email".
func AuthMiddleware(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Unauthorized access.")
			return
		}

		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Unauthorized access.")
			return
		}

		email, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			helpers.AbortWithError(c, http.StatusUnauthorized, "Unauthorized access.")
			return
		}

		c.Set("email", email)
		c.Next()
	}
}
