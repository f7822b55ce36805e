package user

import (
	"Mataam-Backoffice/domain"
	"Mataam-Backoffice/entities"
	"Mataam-Backoffice/internal/logging"
	"Mataam-Backoffice/internal/utils"
	"Mataam-Backoffice/internal/utils/mailing"
	"Mataam-Backoffice/pkg/jwt"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		RegisterStaff(ctx context.Context, req domain.RegisterStaffRequest) (domain.StaffResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		VerifyEmail(ctx context.Context, token string) error
		Me(ctx context.Context, userID string) (domain.StaffResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		log            *logging.Logger
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, log *logging.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		log:            log,
	}
}

func (s *userService) RegisterStaff(ctx context.Context, req domain.RegisterStaffRequest) (domain.StaffResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.StaffResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.StaffResponse{}, &domain.StoreError{Op: "user.register", Err: err}
	}

	restaurantUUID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		return domain.StaffResponse{}, domain.ErrParseUUID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.StaffResponse{}, err
	}

	user := &entities.StaffUser{
		ID:           uuid.New(),
		RestaurantID: restaurantUUID,
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Role:         req.Role,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.StaffResponse{}, &domain.StoreError{Op: "user.register", Err: err}
	}

	if err := s.sendVerificationEmail(user); err != nil {
		s.log.Error("user.register", user.ID.String(), err)
	}

	s.log.Info("user.register", user.ID.String())
	return toStaffResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, &domain.StoreError{Op: "user.login", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}
	if !user.IsVerified {
		return domain.LoginResponse{}, domain.ErrUserNotVerified
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role, user.RestaurantID.String())

	s.log.Info("user.login", user.ID.String())
	return domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateTokenVerification(token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return &domain.StoreError{Op: "user.verify", Err: err}
	}

	if user.IsVerified {
		return nil
	}
	user.IsVerified = true
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return &domain.StoreError{Op: "user.verify", Err: err}
	}

	s.log.Info("user.verify", user.ID.String())
	return nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.StaffResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.StaffResponse{}, domain.ErrUserNotFound
		}
		return domain.StaffResponse{}, &domain.StoreError{Op: "user.me", Err: err}
	}
	return toStaffResponse(user), nil
}

func (s *userService) sendVerificationEmail(user *entities.StaffUser) error {
	token, err := s.jwtService.GenerateTokenVerification(
		map[string]any{"user_id": user.ID.String()},
		time.Hour*24,
	)
	if err != nil {
		return err
	}

	verifyURL := fmt.Sprintf("%s/api/v1/users/verify?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Confirm your back office account by clicking <a href=%q>this link</a>. The link expires in 24 hours.</p>",
		user.Name, verifyURL,
	)
	return mailing.SendMail(user.Email, "Verify your account", body)
}

func toStaffResponse(user *entities.StaffUser) domain.StaffResponse {
	return domain.StaffResponse{
		ID:           user.ID.String(),
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		RestaurantID: user.RestaurantID.String(),
		IsVerified:   user.IsVerified,
	}
}
