package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
	"github.com/hectorisrael87/fundacion-sys/internal/repository"
	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

const (
	accessTokenTTL  = 2 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DTOs for Request validation
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	FullName    string `json:"full_name"`
	Cargo       string `json:"cargo"`
	Password    string `json:"password" binding:"required,min=6"`
	IsCreator   bool   `json:"is_creator"`
	IsReviewer  bool   `json:"is_reviewer"`
	IsApprover  bool   `json:"is_approver"`
	IsSuperuser bool   `json:"is_superuser"`
}

type UpdateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email" binding:"omitempty,email"`
	FullName    *string `json:"full_name"`
	Cargo       *string `json:"cargo"`
	Password    string `json:"password" binding:"omitempty,min=6"`
	IsCreator   *bool  `json:"is_creator"`
	IsReviewer  *bool  `json:"is_reviewer"`
	IsApprover  *bool  `json:"is_approver"`
	IsSuperuser *bool  `json:"is_superuser"`
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Cargo       string    `json:"cargo"`
	IsCreator   bool      `json:"is_creator"`
	IsReviewer  bool      `json:"is_reviewer"`
	IsApprover  bool      `json:"is_approver"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, actor workflow.Actor, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor workflow.Actor, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor workflow.Actor, id string) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Helper: parse model to standard json API response
func mapToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		Cargo:       user.Cargo,
		IsCreator:   user.IsCreator,
		IsReviewer:  user.IsReviewer,
		IsApprover:  user.IsApprover,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ActorFromUser builds the workflow view of an account.
func ActorFromUser(u *model.User) workflow.Actor {
	return workflow.Actor{
		ID:        u.ID,
		Username:  u.Username,
		Creator:   u.IsCreator,
		Reviewer:  u.IsReviewer,
		Approver:  u.IsApprover,
		Superuser: u.IsSuperuser,
	}
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}
	return []byte(secret)
}

func (s *userService) CreateUser(ctx context.Context, actor workflow.Actor, req CreateUserRequest) (*UserResponse, error) {
	if !actor.Superuser {
		return nil, &workflow.PermissionError{Action: "create user", Reason: "superuser required"}
	}

	// Basic Email format validation fallback
	emailRegex := regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)
	if !emailRegex.MatchString(req.Email) {
		return nil, errors.New("invalid email format")
	}

	// Double check username/email uniqueness via repo directly
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already exists")
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already exists")
	}

	// Hash password automatically
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		Cargo:       req.Cargo,
		Password:    string(hashedPassword),
		IsCreator:   req.IsCreator,
		IsReviewer:  req.IsReviewer,
		IsApprover:  req.IsApprover,
		IsSuperuser: req.IsSuperuser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return mapToUserResponse(user), nil
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	actor := ActorFromUser(user)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       user.ID.String(),
		"username":  user.Username,
		"caps":      actor.Capabilities(),
		"superuser": user.IsSuperuser,
		"exp":       time.Now().Add(accessTokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.New("failed to generate refresh token")
	}
	refresh := hex.EncodeToString(raw)
	if err := s.repo.SaveRefreshToken(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenResponse{
		Token:        tokenString,
		RefreshToken: refresh,
		User:         *mapToUserResponse(user),
	}, nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid username or password")
	}
	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token: the presented one is consumed and a new
// pair is issued.
func (s *userService) Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	rt, err := s.repo.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(rt.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, rt.Token)
		return nil, errors.New("refresh token expired")
	}
	if err := s.repo.DeleteRefreshToken(ctx, rt.Token); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, &rt.User)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapToUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var responses []UserResponse
	for _, u := range users {
		responses = append(responses, *mapToUserResponse(&u))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor workflow.Actor, id string, req UpdateUserRequest) (*UserResponse, error) {
	if !actor.Superuser && actor.ID.String() != id {
		return nil, &workflow.PermissionError{Action: "update user", Reason: "superuser required"}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
			return nil, errors.New("username already exists")
		}
		user.Username = req.Username
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, errors.New("email already exists")
		}
		user.Email = req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Cargo != nil {
		user.Cargo = *req.Cargo
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		user.Password = string(hashed)
	}

	// Capability flags are a superuser-only concern.
	if req.IsCreator != nil || req.IsReviewer != nil || req.IsApprover != nil || req.IsSuperuser != nil {
		if !actor.Superuser {
			return nil, &workflow.PermissionError{Action: "change capabilities", Reason: "superuser required"}
		}
		if req.IsCreator != nil {
			user.IsCreator = *req.IsCreator
		}
		if req.IsReviewer != nil {
			user.IsReviewer = *req.IsReviewer
		}
		if req.IsApprover != nil {
			user.IsApprover = *req.IsApprover
		}
		if req.IsSuperuser != nil {
			user.IsSuperuser = *req.IsSuperuser
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return mapToUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actor workflow.Actor, id string) error {
	if !actor.Superuser {
		return &workflow.PermissionError{Action: "delete user", Reason: "superuser required"}
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("user not found")
	}
	if err := s.repo.DeleteRefreshTokensForUser(ctx, user.ID.String()); err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID.String())
}
