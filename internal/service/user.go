package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
)

const defaultPhotoPath = "profile_pics/default.png"

type userRepo interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type profileRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) error
}

type UserService struct {
	users    userRepo
	profiles profileRepo
}

func NewUserService(users userRepo, profiles profileRepo) *UserService {
	return &UserService{users: users, profiles: profiles}
}

// Register creates a user and its profile with the default photo. The email
// must be unused.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	log := logging.FromContext(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("Register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	profile := &domain.Profile{UserID: user.ID, PhotoPath: defaultPhotoPath, UpdatedAt: now}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("Register: profile: %w", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetUser: %w", err)
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetProfile: %w", err)
	}
	return p, nil
}

// UpdateProfilePhoto stores the new photo pointer. Upload and resizing happen
// outside the core; only the resulting path is recorded.
func (s *UserService) UpdateProfilePhoto(ctx context.Context, userID uuid.UUID, photoPath string) (*domain.Profile, error) {
	p := &domain.Profile{UserID: userID, PhotoPath: photoPath, UpdatedAt: time.Now().UTC()}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("UpdateProfilePhoto: %w", err)
	}
	return p, nil
}
