package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"ggmarket/internal/models"
	"ggmarket/internal/repositories/interfaces"
	"ggmarket/internal/utils"
	"ggmarket/internal/validators"
	"ggmarket/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

type authService struct {
	userRepo  interfaces.UserRepository
	jwtSecret string
	logger    *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error) {
	if errs := validators.ValidateRegister(request); errs != nil {
		return nil, utils.NewValidationError("INVALID_REGISTRATION", errs.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil && utils.KindOf(err) != utils.ErrKindNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("EMAIL_TAKEN", "email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	user := &models.User{
		Username: request.Username,
		Email:    request.Email,
		Password: string(hashed),
		Role:     models.UserRoleUser,
		Status:   models.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.jwtSecret)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.logger.WithUserID(user.ID).Info("User registered")

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error) {
	if errs := validators.ValidateLogin(request); errs != nil {
		return nil, utils.NewValidationError("INVALID_LOGIN", errs.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if utils.KindOf(err) == utils.ErrKindNotFound {
			return nil, utils.NewUnauthorizedError("INVALID_CREDENTIALS", "invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		return nil, utils.NewUnauthorizedError("INVALID_CREDENTIALS", "invalid email or password")
	}

	if user.Status == models.UserStatusBanned {
		return nil, utils.NewForbiddenError("ACCOUNT_BANNED", "account is banned")
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.jwtSecret)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	now := time.Now()
	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("Failed to record login time")
	}
	user.LastLoginAt = &now

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, utils.NewUnauthorizedError("INVALID_TOKEN", "refresh token is invalid or expired")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, utils.NewUnauthorizedError("INVALID_TOKEN", "user no longer exists")
	}

	if user.Status == models.UserStatusBanned {
		return nil, utils.NewForbiddenError("ACCOUNT_BANNED", "account is banned")
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.jwtSecret)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
