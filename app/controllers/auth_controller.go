package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func publicUser(u *models.User) response.Map {
	return response.Map{
		"_id":     u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"phone":   u.Phone,
		"address": u.Address,
		"role":    u.Role,
	}
}

// Register: POST /api/v1/auth/register
func (ctl *AuthController) Register(c *appctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	user, err := ctl.auth.Register(c.Context(), in)
	if err != nil {
		fail(c, err, "Error in registration")
		return
	}
	c.Created("User registered successfully", response.Map{"user": user})
}

// Login: POST /api/v1/auth/login
func (ctl *AuthController) Login(c *appctx.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !c.BindJSON(&in) {
		return
	}
	user, token, err := ctl.auth.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err, "Error in login")
		return
	}
	c.Success("Login successful", response.Map{"user": publicUser(user), "token": token})
}

// ForgotPassword: POST /api/v1/auth/forgot-password
func (ctl *AuthController) ForgotPassword(c *appctx.Context) {
	var in struct {
		Email       string `json:"email"`
		Answer      string `json:"answer"`
		NewPassword string `json:"newPassword"`
	}
	if !c.BindJSON(&in) {
		return
	}
	if err := ctl.auth.ForgotPassword(c.Context(), in.Email, in.Answer, in.NewPassword); err != nil {
		fail(c, err, "Something went wrong")
		return
	}
	c.Success("Password reset successfully", nil)
}

// Test is an admin-only probe.
func (ctl *AuthController) Test(c *appctx.Context) {
	c.String(http.StatusOK, "Protected Routes")
}

// Ok answers {ok:true}; mounted behind the sign-in and admin guards so
// the client can check access.
func (ctl *AuthController) Ok(c *appctx.Context) {
	c.JSON(http.StatusOK, response.Map{"ok": true})
}

// UpdateProfile: PUT /api/v1/auth/profile
func (ctl *AuthController) UpdateProfile(c *appctx.Context) {
	var in services.ProfileInput
	if !c.BindJSON(&in) {
		return
	}
	user, err := ctl.auth.UpdateProfile(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err, "Error while updating profile")
		return
	}
	c.Success("Profile updated successfully", response.Map{"updatedUser": user})
}
