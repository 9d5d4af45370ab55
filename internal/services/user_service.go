package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/markdave123-py/uniconnect/internal/core"
	"github.com/markdave123-py/uniconnect/internal/models"
)

type UserService struct {
	db     core.DbClient
	tokens *TokenService
	now    func() time.Time
	cost   int
}

func NewUserService(db core.DbClient, tokens *TokenService) *UserService {
	return &UserService{db: db, tokens: tokens, now: time.Now, cost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	Department string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account; a taken email is a BadRequest.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	existing, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, core.BadRequest("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Department:   strings.TrimSpace(in.Department),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicate) {
			return nil, core.BadRequest("User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.db.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("lookup email: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", core.BadRequest("Invalid credentials")
	}
	return s.tokens.Issue(user.ID)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, core.NotFound("User not found")
	}
	return user, nil
}

// UpdateProfile keeps the stored value for any field left empty.
func (s *UserService) UpdateProfile(ctx context.Context, userID, bio, pictureURL string) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(bio) == "" {
		bio = user.Bio
	}
	if strings.TrimSpace(pictureURL) == "" {
		pictureURL = user.ProfilePictureURL
	}
	updated, err := s.db.UpdateUserProfile(ctx, userID, bio, pictureURL)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, core.NotFound("User not found")
	}
	return updated, nil
}
