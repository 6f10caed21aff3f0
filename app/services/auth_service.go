package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Answer   string `json:"answer"`
}

// ProfileInput is a partial profile update; empty fields are left alone.
type ProfileInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// AuthService handles accounts and sign-in.
type AuthService struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
}

var _ rbac.RoleLookup = (*AuthService)(nil)

func NewAuthService(users repositories.UserRepository, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a regular user. An existing email yields a 200 with
// success false.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := requireFields(
		field{"Name", strings.TrimSpace(in.Name)},
		field{"Email", in.Email},
		field{"Password", in.Password},
		field{"Phone", strings.TrimSpace(in.Phone)},
		field{"Address", strings.TrimSpace(in.Address)},
		field{"Answer", strings.TrimSpace(in.Answer)},
	); err != nil {
		return nil, err
	}
	if validate.Var(in.Email, "email") != nil {
		return nil, badRequest("Email is invalid")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	alreadyRegistered := newError(http.StatusOK, "Already registered, please login", nil)
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, alreadyRegistered
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, internal("Error in registration", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, internal("Error in registration", err)
	}
	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
		Answer:   strings.TrimSpace(in.Answer),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, alreadyRegistered
		}
		return nil, internal("Error in registration", err)
	}
	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", notFound("Invalid email or password")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", lookupErr(err, "Email is not registered", "Error in login")
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, "", newError(http.StatusOK, "Invalid password", nil)
	}
	token, err := auth.SignToken(user.ID, s.secret, s.ttl)
	if err != nil {
		return nil, "", internal("Error in login", err)
	}
	return user, token, nil
}

// ForgotPassword resets the password of the user matching email and
// security answer.
func (s *AuthService) ForgotPassword(ctx context.Context, email, answer, newPassword string) error {
	email = normalizeEmail(email)
	answer = strings.TrimSpace(answer)
	if err := requireFields(
		field{"Email", email},
		field{"Answer", answer},
		field{"New password", newPassword},
	); err != nil {
		return err
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.FindByEmailAndAnswer(ctx, email, answer)
	if err != nil {
		return lookupErr(err, "Wrong email or answer", "Something went wrong")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return internal("Something went wrong", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return internal("Something went wrong", err)
	}
	return nil
}

// UpdateProfile applies the non-empty fields of in. The password is
// re-hashed only when supplied.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.User, error) {
	if in.Password != "" {
		if err := checkPassword(in.Password); err != nil {
			return nil, err
		}
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "User not found", "Error while updating profile")
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		user.Phone = v
	}
	if v := strings.TrimSpace(in.Address); v != "" {
		user.Address = v
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, internal("Error while updating profile", err)
		}
		user.Password = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, internal("Error while updating profile", err)
	}
	return user, nil
}

// RoleOf implements rbac.RoleLookup. A missing user is ok=false.
func (s *AuthService) RoleOf(ctx context.Context, userID string) (int, bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return user.Role, true, nil
}
