package services_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

var secret = []byte("test-secret")

func validRegistration() services.RegisterInput {
	return services.RegisterInput{
		Name:     "Asha",
		Email:    "Asha@Example.com",
		Password: "secret1",
		Phone:    "555-0100",
		Address:  "1 Main St",
		Answer:   "blue",
	}
}

func TestRegisterRequiresFields(t *testing.T) {
	svc := services.NewAuthService(newStore(t).Users, secret, time.Hour)

	in := validRegistration()
	in.Phone = ""
	_, err := svc.Register(ctx, in)
	requireError(t, err, http.StatusBadRequest, "Phone is required")
}

func TestRegisterAndDuplicate(t *testing.T) {
	store := newStore(t)
	svc := services.NewAuthService(store.Users, secret, time.Hour)

	u, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.Password)

	_, err = svc.Register(ctx, validRegistration())
	requireError(t, err, http.StatusOK, "Already registered, please login")
}

func TestLogin(t *testing.T) {
	svc := services.NewAuthService(newStore(t).Users, secret, time.Hour)
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "", "")
	requireError(t, err, http.StatusNotFound, "Invalid email or password")

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	requireError(t, err, http.StatusNotFound, "Email is not registered")

	_, _, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	requireError(t, err, http.StatusOK, "Invalid password")

	user, token, err := svc.Login(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	claims, err := auth.VerifyToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestForgotPasswordBoundary(t *testing.T) {
	svc := services.NewAuthService(newStore(t).Users, secret, time.Hour)
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, "asha@example.com", "blue", "12345")
	requireError(t, err, http.StatusBadRequest, "Password must be at least 6 characters long")

	err = svc.ForgotPassword(ctx, "asha@example.com", "red", "123456")
	requireError(t, err, http.StatusNotFound, "Wrong email or answer")

	require.NoError(t, svc.ForgotPassword(ctx, "asha@example.com", "blue", "123456"))
	_, _, err = svc.Login(ctx, "asha@example.com", "123456")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := services.NewAuthService(newStore(t).Users, secret, time.Hour)
	u, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, u.ID, services.ProfileInput{Password: "12345"})
	requireError(t, err, http.StatusBadRequest, "Password must be at least 6 characters long")

	updated, err := svc.UpdateProfile(ctx, u.ID, services.ProfileInput{Address: "2 High St", Password: "654321"})
	require.NoError(t, err)
	assert.Equal(t, "2 High St", updated.Address)
	assert.Equal(t, "Asha", updated.Name)

	_, _, err = svc.Login(ctx, "asha@example.com", "654321")
	assert.NoError(t, err)
}

func TestPasswordByteLimit(t *testing.T) {
	svc := services.NewAuthService(newStore(t).Users, secret, time.Hour)
	longest := strings.Repeat("p", services.MaxPasswordBytes)
	tooLong := longest + "p"

	in := validRegistration()
	in.Password = tooLong
	_, err := svc.Register(ctx, in)
	requireError(t, err, http.StatusBadRequest, "Password must be at most 72 bytes")

	in.Password = longest
	u, err := svc.Register(ctx, in)
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, "asha@example.com", longest)
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, "asha@example.com", "blue", tooLong)
	requireError(t, err, http.StatusBadRequest, "Password must be at most 72 bytes")

	_, err = svc.UpdateProfile(ctx, u.ID, services.ProfileInput{Password: tooLong})
	requireError(t, err, http.StatusBadRequest, "Password must be at most 72 bytes")

	// Multi-byte runes count by bytes: 36 two-byte runes fit, 37 do not.
	_, err = svc.UpdateProfile(ctx, u.ID, services.ProfileInput{Password: strings.Repeat("é", 37)})
	requireError(t, err, http.StatusBadRequest, "Password must be at most 72 bytes")
	_, err = svc.UpdateProfile(ctx, u.ID, services.ProfileInput{Password: strings.Repeat("é", 36)})
	require.NoError(t, err)
}

func TestRoleOf(t *testing.T) {
	store := newStore(t)
	svc := services.NewAuthService(store.Users, secret, time.Hour)
	u, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	role, ok, err := svc.RoleOf(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.RoleUser, role)

	_, ok, err = svc.RoleOf(ctx, models.NewID())
	require.NoError(t, err)
	assert.False(t, ok)
}
