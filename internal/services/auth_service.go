package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"socialfeed/internal/apperrors"
	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers users, issues bearer tokens and resolves them back
// into an Identity.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *logrus.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token    string
	UserID   models.ID
	Username string
}

// Register creates a user with the "user" role. Email must be unused.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.createUser(ctx, in, models.RoleUser)
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, role models.Role) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" || in.Password == "" {
		return nil, apperrors.Validation("Username, email and password are required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.Validation("Email already exists")
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Bio:          "",
		AvatarURL:    models.DefaultAvatarURL,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user registered")
	return user, nil
}

// EnsureAdmin creates an admin account unless the email is already registered.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.createUser(ctx, in, models.RoleAdmin)
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Validation("Invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Validation("Invalid email or password")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, UserID: user.ID, Username: user.Username}, nil
}

// IssueToken signs a token carrying the user's id, role and username.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID.String(),
		"role":     string(user.Role),
		"username": user.Username,
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.Internal("failed to generate token", err)
	}
	return tokenString, nil
}

// Authenticate verifies a bearer token and returns the caller's Identity.
func (s *AuthService) Authenticate(tokenString string) (models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		s.log.WithError(err).Debug("token validation failed")
		return models.Identity{}, apperrors.Unauthorized("Unauthorized: invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, apperrors.Unauthorized("Unauthorized: invalid token")
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := models.ParseID(rawID)
	if err != nil {
		return models.Identity{}, apperrors.Unauthorized("Unauthorized: invalid token")
	}

	role := models.RoleUser
	if r, _ := claims["role"].(string); models.Role(r) == models.RoleAdmin {
		role = models.RoleAdmin
	}
	username, _ := claims["username"].(string)

	return models.Identity{UserID: userID, Role: role, Username: username}, nil
}
