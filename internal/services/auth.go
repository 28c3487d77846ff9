package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

const minPasswordLength = 6

// AuthUser is the public shape of an authenticated user.
type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthUser, string, error)
	Login(ctx context.Context, email, password string) (*AuthUser, string, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*AuthUser, error)
	VerifyToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	profileRepo  repos.ProfileRepo
	jwtSecretKey string
	tokenTTL     time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.ProfileRepo,
	jwtSecretKey string,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		jwtSecretKey: jwtSecretKey,
		tokenTTL:     tokenTTL,
	}
}

// Register creates the user together with an empty profile already at the
// onboarding stage, so a fresh account lands directly in the wizard.
func (as *authService) Register(ctx context.Context, name, email, password string) (*AuthUser, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, "", fmt.Errorf("name and email are required")
	}
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	exists, eErr := as.userRepo.EmailExists(ctx, nil, email)
	if eErr != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", eErr)
	}
	if exists {
		return nil, "", fmt.Errorf("an account with this email already exists")
	}

	hash, hErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if hErr != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", hErr)
	}

	user := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cErr := as.userRepo.Create(ctx, tx, user); cErr != nil {
			return fmt.Errorf("failed to create user: %w", cErr)
		}
		profile := &types.Profile{
			ID:           uuid.New(),
			UserID:       user.ID,
			FullName:     name,
			CurrentStage: types.StageOnboarding,
		}
		if pErr := as.profileRepo.Create(ctx, tx, profile); pErr != nil {
			return fmt.Errorf("failed to create profile: %w", pErr)
		}
		return nil
	}); err != nil {
		return nil, "", err
	}

	token, tErr := as.generateToken(user.ID)
	if tErr != nil {
		return nil, "", tErr
	}
	as.log.Info("User registered", "user_id", user.ID)
	return &AuthUser{ID: user.ID, Email: user.Email, Name: name}, token, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthUser, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, uErr := as.userRepo.GetByEmail(ctx, nil, email)
	if uErr != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", uErr)
	}
	if user == nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("invalid email or password")
	}

	token, tErr := as.generateToken(user.ID)
	if tErr != nil {
		return nil, "", tErr
	}
	as.log.Info("User logged in", "user_id", user.ID)
	return as.withProfileName(ctx, user), token, nil
}

func (as *authService) GetMe(ctx context.Context, userID uuid.UUID) (*AuthUser, error) {
	user, err := as.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return as.withProfileName(ctx, user), nil
}

// withProfileName fills the display name from the profile. The user row
// itself only stores credentials.
func (as *authService) withProfileName(ctx context.Context, user *types.User) *AuthUser {
	out := &AuthUser{ID: user.ID, Email: user.Email}
	profile, err := as.profileRepo.GetByUserID(ctx, nil, user.ID)
	if err == nil && profile != nil {
		out.Name = profile.FullName
	}
	return out
}

func (as *authService) generateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(as.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates the signature and expiry and returns the user ID
// from the subject claim.
func (as *authService) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	userID, pErr := uuid.Parse(sub)
	if pErr != nil {
		return uuid.Nil, fmt.Errorf("invalid token subject")
	}
	return userID, nil
}
