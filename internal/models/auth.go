package models

import "github.com/golang-jwt/jwt/v4"

// AdminClaims are custom claims extending standard jwt.RegisteredClaims
type AdminClaims struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the audit attribution identity carried by the claims.
func (c *AdminClaims) Actor() Actor {
	return Actor{ID: c.AdminID, Email: c.Email, Role: c.Role}
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// TransitionStatusRequest is the payload for the account status endpoint.
type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Force  bool   `json:"force"`
}
