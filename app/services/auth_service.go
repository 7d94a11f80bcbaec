package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"StoreApp/app/models"
)

// ErrInvalidCredentials is returned on a failed login or a bad token.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Caller identifies the authenticated user of a request.
type Caller struct {
	UserID   uint
	Username string
}

type callerKey struct{}

// ContextWithCaller attaches the authenticated caller to ctx.
func ContextWithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the authenticated caller, if any.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}

// AuthService handles login, tokens and profile management.
type AuthService struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(db *gorm.DB, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{db: db, secret: []byte(secret), tokenTTL: tokenTTL}
}

// Claims carried in the signed token.
type Claims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// Login verifies the credentials and returns a signed token with the user.
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, InvalidArgumentf("username and password are required")
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("loading user %s: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sign(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *AuthService) sign(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token string and returns its caller.
func (s *AuthService) ParseToken(tokenString string) (Caller, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Caller{}, ErrInvalidCredentials
	}
	return Caller{UserID: claims.UserID, Username: claims.Username}, nil
}

// ProfileInput is the profile update shape.
type ProfileInput struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phoneNumber"`
	Age          int    `json:"age"`
	ProfileImage string `json:"profileImage"`
	Logo         string `json:"logo"`
	Password     string `json:"password"`
}

// GetProfile loads the caller's profile.
func (s *AuthService) GetProfile(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("user %s", username)
		}
		return nil, fmt.Errorf("loading user %s: %w", username, err)
	}
	return &user, nil
}

// UpdateProfile overwrites the caller's profile fields; a non-empty password
// is re-hashed.
func (s *AuthService) UpdateProfile(username string, in ProfileInput) (*models.User, error) {
	user, err := s.GetProfile(username)
	if err != nil {
		return nil, err
	}

	user.Name = in.Name
	user.Address = in.Address
	user.Phone = in.Phone
	user.Age = in.Age
	user.ProfileImage = in.ProfileImage
	user.Logo = in.Logo
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("updating user %s: %w", username, err)
	}
	return user, nil
}

// PublicProfile is the unauthenticated storefront identity.
type PublicProfile struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
	Logo         string `json:"logo"`
}

// GetPublicProfile returns the first user's public fields.
func (s *AuthService) GetPublicProfile() (*PublicProfile, error) {
	var user models.User
	if err := s.db.Order("id asc").First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("store profile")
		}
		return nil, fmt.Errorf("loading store profile: %w", err)
	}
	return &PublicProfile{
		Name:         user.Name,
		ProfileImage: user.ProfileImage,
		Logo:         user.Logo,
	}, nil
}

// SeedAdmin creates the admin user if it does not exist yet.
func (s *AuthService) SeedAdmin(username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("checking admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	user := models.User{Username: username, PasswordHash: string(hash), Name: username}
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	log.Printf("Admin user %s created", username)
	return nil
}
