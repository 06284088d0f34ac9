package auth

import (
	"context"
	"net/http"
	"os"
	"strings"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
)

// userCtxKey is the Gin context key used to store the authenticated user id.
const userCtxKey = "firebase_uid"

// NewFirebaseClient initializes a Firebase Admin SDK auth client from the
// service account JSON named by GOOGLE_APPLICATION_CREDENTIALS. Returns a nil
// client (not an error) when credentials are absent, so local development
// runs without the dashboard auth configured.
func NewFirebaseClient(ctx context.Context) (*fbauth.Client, error) {
	cred := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if cred == "" {
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cred))
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}

// RequireUser verifies the Bearer ID token and stores the caller's uid in the
// request context. Dashboard routes sit behind this middleware.
func RequireUser(client *fbauth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "auth not configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			return
		}
		idToken := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := client.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userCtxKey, token.UID)
		c.Next()
	}
}

// UserID returns the authenticated user id from the request context.
func UserID(c *gin.Context) string {
	v, _ := c.Get(userCtxKey)
	s, _ := v.(string)
	return s
}
