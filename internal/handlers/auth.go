package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pawhaven/rescue-console/backend/internal/audit"
	"github.com/pawhaven/rescue-console/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	firebaseAuth      *auth.Client
	trail             *audit.Trail
	jwtSecret         string
	adminEmail        string
	adminPasswordHash string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(firebaseAuthClient *auth.Client, trail *audit.Trail) *AuthHandler {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
	}
	return &AuthHandler{
		firebaseAuth:      firebaseAuthClient,
		trail:             trail,
		jwtSecret:         jwtSecret,
		adminEmail:        os.Getenv("ADMIN_EMAIL"),
		adminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// SignIn authenticates the bootstrap super-admin against env-configured
// credentials and issues the service JWT.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if h.adminEmail == "" || h.adminPasswordHash == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Local sign-in is not configured")
	}
	if req.Email != h.adminEmail || bcrypt.CompareHashAndPassword([]byte(h.adminPasswordHash), []byte(req.Password)) != nil {
		h.recordLogin(c, req.Email, "super-admin", false)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.issueToken("super-admin", req.Email, "super-admin")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not create token")
	}

	h.recordLogin(c, req.Email, "super-admin", true)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"token": token,
			"role":  "super-admin",
		},
	})
}

// FirebaseLogin verifies a Firebase ID token and exchanges it for the
// service JWT carrying the admin's audit identity.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	role, _ := token.Claims["role"].(string)
	if role == "" {
		role = "admin"
	}

	signed, err := h.issueToken(token.UID, email, role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Could not create token")
	}

	h.recordLogin(c, email, role, true)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"token": signed,
			"role":  role,
		},
	})
}

func (h *AuthHandler) issueToken(adminID, email, role string) (string, error) {
	claims := &models.AdminClaims{
		AdminID: adminID,
		Email:   email,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *AuthHandler) recordLogin(c echo.Context, email, role string, success bool) {
	severity := models.SeverityInfo
	action := "Admin signed in"
	if !success {
		severity = models.SeverityWarning
		action = "Admin sign-in failed"
	}
	h.trail.Record(c.Request().Context(), models.AuditEvent{
		Type:              models.AuditAuthentication,
		Action:            action,
		Severity:          severity,
		ActorID:           email,
		ActorEmail:        email,
		ActorRole:         role,
		TargetDescription: "console session",
		Details:           fmt.Sprintf("%s from %s", action, c.RealIP()),
		Metadata:          map[string]any{"success": success},
	})
}
