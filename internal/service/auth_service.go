package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/StockSmart-AI/stock-smart-backend/internal/config"
	"github.com/StockSmart-AI/stock-smart-backend/internal/dto"
	"github.com/StockSmart-AI/stock-smart-backend/internal/model"
	"github.com/StockSmart-AI/stock-smart-backend/internal/repository"
	"github.com/StockSmart-AI/stock-smart-backend/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (*dto.LoginResponse, error)
	ResendOTP(ctx context.Context, email string) error
	// AcceptInvitation creates a verified employee account bound to the
	// invitation's shop.
	AcceptInvitation(ctx context.Context, req dto.AcceptInvitationRequest) (*dto.LoginResponse, error)
}

type authService struct {
	users       repository.UserRepository
	invitations repository.InvitationRepository
	dispatcher  *worker.Dispatcher
	cfg         *config.Config
}

func NewAuthService(
	users repository.UserRepository,
	invitations repository.InvitationRepository,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) AuthService {
	return &authService{users: users, invitations: invitations, dispatcher: dispatcher, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	code, err := newOTPCode()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(time.Duration(s.cfg.OTPTTLMinutes) * time.Minute)

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         "owner",
		OTPCode:      &code,
		OTPExpiry:    &expiry,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueOTP(ctx, map[string]interface{}{
			"email": user.Email,
			"name":  user.Name,
			"code":  code,
		})
	}
	return userToResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, ErrUserNotVerified
	}
	return s.tokenPair(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil || !user.IsVerified {
		return nil, ErrInvalidCredentials
	}
	return s.tokenPair(user)
}

func (s *authService) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidOTP
	}
	if user.OTPCode == nil || user.OTPExpiry == nil {
		return nil, ErrInvalidOTP
	}
	if *user.OTPCode != req.Code || time.Now().After(*user.OTPExpiry) {
		return nil, ErrInvalidOTP
	}

	user.IsVerified = true
	user.OTPCode = nil
	user.OTPExpiry = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.tokenPair(user)
}

func (s *authService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the address exists.
		return nil
	}
	if user.IsVerified {
		return nil
	}
	code, err := newOTPCode()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(time.Duration(s.cfg.OTPTTLMinutes) * time.Minute)
	user.OTPCode = &code
	user.OTPExpiry = &expiry
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueOTP(ctx, map[string]interface{}{
			"email": user.Email,
			"name":  user.Name,
			"code":  code,
		})
	}
	return nil
}

func (s *authService) AcceptInvitation(ctx context.Context, req dto.AcceptInvitationRequest) (*dto.LoginResponse, error) {
	inv, err := s.invitations.FindByToken(ctx, req.Token)
	if err != nil || inv.Accepted || inv.Expired() {
		return nil, ErrInvitationInvalid
	}
	if _, err := s.users.FindByEmail(ctx, inv.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	shopID := inv.ShopID
	user := &model.User{
		Name:         req.Name,
		Email:        inv.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         inv.Role,
		ShopID:       &shopID,
		IsVerified:   true, // the invitation email already proved the address
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.invitations.MarkAccepted(ctx, inv.ID); err != nil {
		return nil, err
	}
	return s.tokenPair(user)
}

func (s *authService) tokenPair(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         *userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func newOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func userToResponse(u *model.User) *dto.UserResponse {
	var shopID *string
	if u.ShopID != nil {
		s := u.ShopID.String()
		shopID = &s
	}
	return &dto.UserResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		ShopID:     shopID,
		IsVerified: u.IsVerified,
	}
}
