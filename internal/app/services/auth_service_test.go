package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models/dto"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
)

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName: "  Ada Lovelace ",
		Email:    "Ada@Example.COM",
		Password: "Secret123",
		Role:     models.RoleStudent,
	}
}

func TestRegister_CreatesUserWithEmptyProfile(t *testing.T) {
	f := newFixture()

	resp, err := f.auth.Register(context.Background(), registerRequest())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if resp.Token == "" || resp.TokenType != "Bearer" {
		t.Errorf("unexpected token fields: %+v", resp)
	}
	if resp.User.Email != "ada@example.com" {
		t.Errorf("email = %q, want normalized", resp.User.Email)
	}
	if resp.User.FullName != "Ada Lovelace" {
		t.Errorf("fullName = %q", resp.User.FullName)
	}
	if resp.Profile == nil || resp.Profile.Points != 0 || resp.Profile.Level != 1 {
		t.Errorf("profile must start at 0 points, level 1: %+v", resp.Profile)
	}

	if len(f.email.sent) != 1 || f.email.sent[0].Kind != "welcome" {
		t.Errorf("expected one welcome email, got %+v", f.email.sent)
	}
	types := f.db.activityTypes(resp.User.ID)
	if len(types) != 1 || types[0] != models.ActivityRegistered {
		t.Errorf("activity = %v", types)
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	req := registerRequest()
	req.Email = "ada@example.com"
	if _, err := f.auth.Register(ctx, req); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestRegister_ValidatesInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *dto.RegisterRequest)
	}{
		{"short password", func(r *dto.RegisterRequest) { r.Password = "abc1" }},
		{"password without digit", func(r *dto.RegisterRequest) { r.Password = "onlyletters" }},
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }},
		{"blank name", func(r *dto.RegisterRequest) { r.FullName = "   " }},
		{"unknown role", func(r *dto.RegisterRequest) { r.Role = "admin" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := registerRequest()
			tt.mutate(req)

			_, err := f.auth.Register(context.Background(), req)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("err = %v, want validation error", err)
			}
			if len(f.db.users) != 0 {
				t.Error("no user must be created")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.auth.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	resp, err := f.auth.Login(ctx, &dto.LoginRequest{Email: " ADA@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if f.db.users[resp.User.ID].LastLoginAt == nil {
		t.Error("last login must be recorded")
	}
	if resp.Profile == nil {
		t.Error("login response must include the profile")
	}

	if _, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "Wrong1234"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "Secret123"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := newFixture()
	id := f.db.seedUser(models.RoleStudent, models.Profile{})
	f.db.users[id].IsActive = false

	_, err := f.auth.Login(context.Background(), &dto.LoginRequest{Email: f.db.users[id].Email, Password: "Secret123"})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Errorf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestMe(t *testing.T) {
	f := newFixture()
	id := f.db.seedUser(models.RoleIndustryExpert, models.Profile{Points: 120})

	me, err := f.auth.Me(context.Background(), id)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.User.Role != string(models.RoleIndustryExpert) || me.Profile == nil || me.Profile.Points != 120 {
		t.Errorf("unexpected me response: %+v", me)
	}

	if _, err := f.auth.Me(context.Background(), 999); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("missing user: err = %v", err)
	}
}
