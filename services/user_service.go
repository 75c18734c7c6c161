package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"decor-marketplace-server/models"
	"decor-marketplace-server/repository"
	"decor-marketplace-server/types"
	"decor-marketplace-server/utils"
)

// AuthResult is returned by register and login
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, actor types.Actor, email string) (*models.User, error)
	Search(ctx context.Context, actor types.Actor, term string) ([]models.User, error)
	UpdateRole(ctx context.Context, actor types.Actor, id uint, role models.UserRole) (*models.User, error)
	UpdateProfile(ctx context.Context, actor types.Actor, email string, req models.ProfileUpdate) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	email := models.NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalid("email", "a valid email is required")
	}
	if len(req.Password) < 6 {
		return nil, invalid("password", "must be at least 6 characters")
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, invalid("displayName", "is required")
	}

	if _, err := s.userRepo.FindByEmail(ctx, nil, email); err == nil {
		return nil, fmt.Errorf("user %s %w", email, ErrAlreadyExists)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PhotoURL:     strings.TrimSpace(req.PhotoURL),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Printf("✅ User %s registered", user.Email)
	return issue(user)
}

func (s *userService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, nil, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return issue(user)
}

func (s *userService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, actor types.Actor, email string) (*models.User, error) {
	if !actor.IsAdmin() && models.NormalizeEmail(email) != models.NormalizeEmail(actor.Email) {
		return nil, denied(actor.Email, "view another user's account")
	}
	user, err := s.userRepo.FindByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *userService) Search(ctx context.Context, actor types.Actor, term string) ([]models.User, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "search users")
	}
	return s.userRepo.Search(ctx, term)
}

func (s *userService) UpdateRole(ctx context.Context, actor types.Actor, id uint, role models.UserRole) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, denied(actor.Email, "change user roles")
	}
	if !role.IsValid() {
		return nil, invalid("role", fmt.Sprintf("unknown role %q", role))
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Email == models.NormalizeEmail(actor.Email) && role != models.RoleAdmin {
		return nil, invalid("role", "admins cannot demote themselves")
	}
	user.Role = role
	if err := s.userRepo.Save(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	log.Printf("🔍 %s changed role of %s to %s", actor.Email, user.Email, role)
	return user, nil
}

// UpdateProfile lets users edit their own display fields
func (s *userService) UpdateProfile(ctx context.Context, actor types.Actor, email string, req models.ProfileUpdate) (*models.User, error) {
	if actor.Anonymous() || models.NormalizeEmail(email) != models.NormalizeEmail(actor.Email) {
		return nil, denied(actor.Email, "update this profile")
	}
	user, err := s.userRepo.FindByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, invalid("displayName", "cannot be empty")
		}
		user.DisplayName = name
	}
	if req.PhotoURL != nil {
		user.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if err := s.userRepo.Save(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := utils.GenerateToken(user.Actor())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
