package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/models"
)

// Context keys set by the auth middlewares
const (
	ContextCustomerID    = "customer_id"
	ContextEmailVerified = "email_verified"
	ContextStaffID       = "staff_id"
	ContextRequestID     = "request_id"
)

// CORS returns the CORS middleware for storefront and admin origins
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Idempotency-Key"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}

// RequestID attaches a request id to every request, generating one when the
// client did not send one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogger logs each request with method, path, status and latency
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.GetString(ContextRequestID),
		}).Info("Request handled")
	}
}

// Recovery converts panics into a 500 error envelope
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"panic":      r,
					"path":       c.Request.URL.Path,
					"request_id": c.GetString(ContextRequestID),
				}).Error("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
					Success: false,
					Error: models.Error{
						Code:    "INTERNAL_ERROR",
						Message: "An unexpected error occurred",
					},
					RequestID: c.GetString(ContextRequestID),
				})
			}
		}()
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func parseClaims(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
		RequestID: c.GetString(ContextRequestID),
	})
}

// CustomerAuth requires a valid customer token and stores the customer id in
// the context
func CustomerAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			unauthorized(c, "Authentication required")
			return
		}
		claims, err := parseClaims(tokenString, jwtSecret)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}
		sub, _ := claims["sub"].(string)
		customerID, err := uuid.Parse(sub)
		if err != nil {
			unauthorized(c, "Invalid token subject")
			return
		}
		c.Set(ContextCustomerID, customerID)
		c.Set(ContextEmailVerified, emailVerified(claims))
		c.Next()
	}
}

// emailVerified reads the email_verified claim; tokens without the claim are
// treated as verified for compatibility with older issuers.
func emailVerified(claims jwt.MapClaims) bool {
	if v, ok := claims["email_verified"].(bool); ok {
		return v
	}
	return true
}

// OptionalCustomerAuth resolves the customer id when a valid token is present
// and lets guests through otherwise
func OptionalCustomerAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString != "" {
			if claims, err := parseClaims(tokenString, jwtSecret); err == nil {
				if sub, _ := claims["sub"].(string); sub != "" {
					if customerID, err := uuid.Parse(sub); err == nil {
						c.Set(ContextCustomerID, customerID)
						c.Set(ContextEmailVerified, emailVerified(claims))
					}
				}
			}
		}
		c.Next()
	}
}

// StaffAuth requires a token carrying the staff role; used by the admin
// surface (order lifecycle, coupons, shipping catalog, exports)
func StaffAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			unauthorized(c, "Authentication required")
			return
		}
		claims, err := parseClaims(tokenString, jwtSecret)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}
		role, _ := claims["role"].(string)
		if role != "staff" && role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "FORBIDDEN",
					Message: "Staff access required",
				},
				RequestID: c.GetString(ContextRequestID),
			})
			return
		}
		if sub, _ := claims["sub"].(string); sub != "" {
			c.Set(ContextStaffID, sub)
		}
		c.Next()
	}
}

// EmailVerifiedFromContext reports whether the authenticated customer's email
// is verified. Guests (no token) report true; verification only gates signed-in
// customers.
func EmailVerifiedFromContext(c *gin.Context) bool {
	value, exists := c.Get(ContextEmailVerified)
	if !exists {
		return true
	}
	verified, ok := value.(bool)
	return !ok || verified
}

// CustomerIDFromContext returns the authenticated customer id, if any
func CustomerIDFromContext(c *gin.Context) *uuid.UUID {
	value, exists := c.Get(ContextCustomerID)
	if !exists {
		return nil
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
