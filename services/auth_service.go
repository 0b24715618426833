package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-booking/models"
	"hotel-booking/utils"
)

const minPasswordLength = 6

type AuthService struct {
	DB     *gorm.DB
	Tokens *utils.TokenIssuer
	Hub    *SessionHub

	// HashCost is the bcrypt cost used for new passwords.
	HashCost int

	// AdminEmails sign up with the admin role.
	AdminEmails map[string]bool
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenIssuer, hub *SessionHub) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Hub: hub, HashCost: bcrypt.DefaultCost, AdminEmails: map[string]bool{}}
}

func (s *AuthService) roleFor(email string) string {
	if s.AdminEmails[email] {
		return models.RoleAdmin
	}
	return models.RoleGuest
}

// GrantAdmin records emails as administrators and promotes the accounts that
// already exist. It returns how many accounts changed role.
func (s *AuthService) GrantAdmin(ctx context.Context, emails []string) (int64, error) {
	if s.AdminEmails == nil {
		s.AdminEmails = map[string]bool{}
	}
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			s.AdminEmails[e] = true
			normalized = append(normalized, e)
		}
	}
	if len(normalized) == 0 {
		return 0, nil
	}
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("email IN ? AND role <> ?", normalized, models.RoleAdmin).
		Update("role", models.RoleAdmin)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to grant admin: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		zap.L().Info("granted admin role", zap.Int64("accounts", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (models.AuthResponse, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return models.AuthResponse{}, fmt.Errorf("%w: invalid email", ErrAuth)
	}
	if len(password) < minPasswordLength {
		return models.AuthResponse{}, fmt.Errorf("%w: password must be at least %d characters", ErrAuth, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: email[:strings.Index(email, "@")],
		Role:        s.roleFor(email),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.UserProfile{
			UserID:      user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		}
		profile.Preferences = newPreferences(models.Preferences{Notifications: true, Language: "en"})
		return tx.Create(&profile).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return models.AuthResponse{}, fmt.Errorf("%w: email already in use", ErrAuth)
		}
		return models.AuthResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	zap.L().Info("user signed up", zap.String("email", utils.MaskEmail(email)), zap.String("uid", user.ID))
	return s.startSession(user)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (models.AuthResponse, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AuthResponse{}, fmt.Errorf("%w: invalid credentials", ErrAuth)
		}
		return models.AuthResponse{}, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: invalid credentials", ErrAuth)
	}
	return s.startSession(user)
}

func (s *AuthService) startSession(user models.User) (models.AuthResponse, error) {
	token, err := s.Tokens.Issue(user.ID, user.SessionVersion)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}
	u := user
	s.Hub.Publish(user.ID, SessionEvent{Type: SessionSignedIn, User: &u})
	return models.AuthResponse{Token: token, User: user}, nil
}

// SignOut invalidates every token issued to userID so far.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("session_version", gorm.Expr("session_version + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("failed to sign out: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	s.Hub.Publish(userID, SessionEvent{Type: SessionSignedOut})
	return nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	claims, err := s.Tokens.Validate(token)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return models.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	if user.SessionVersion != claims.SessionVersion {
		return models.User{}, fmt.Errorf("%w: session ended", ErrUnauthenticated)
	}
	return user, nil
}
