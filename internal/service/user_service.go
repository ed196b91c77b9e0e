package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/port"
)

const tokenLifetime = 24 * time.Hour

type UserService struct {
	users     port.UserRepository
	jwtSecret []byte
}

func NewUserService(users port.UserRepository, jwtSecret []byte) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

func (s *UserService) Register(ctx context.Context, email, name, password string, userType domain.UserType, address string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	user := domain.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Name:     strings.TrimSpace(name),
		Password: string(hash),
		UserType: userType,
		Address:  strings.TrimSpace(address),
	}

	if err := s.users.Insert(ctx, &user); err != nil {
		return domain.User{}, fmt.Errorf("users.Insert: %w", err)
	}

	return user, nil
}

// Login checks credentials and issues a signed token on success.
func (s *UserService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issueToken: %w", err)
	}

	return user, token, nil
}

func (s *UserService) issueToken(user domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("users.FindByID: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("users.FindAll: %w", err)
	}
	return users, nil
}

type UpdateUserInput struct {
	Email    *string
	Name     *string
	Password *string
	UserType *domain.UserType
	Address  *string
}

func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, input UpdateUserInput) (domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("users.FindByID: %w", err)
	}

	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
		}
		user.Password = string(hash)
	}
	if input.UserType != nil {
		user.UserType = *input.UserType
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return domain.User{}, fmt.Errorf("users.Update: %w", err)
	}

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("users.Delete: %w", err)
	}
	return nil
}
