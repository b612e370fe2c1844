package services

import (
	"fmt"
	"strings"
	"time"

	"taskmanager/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload carried by every bearer token the local server
// issues.
type Claims struct {
	UserID   string      `json:"userId"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	store     *Store
	jwtSecret []byte
}

func NewAuthService(store *Store, jwtSecret string) *AuthService {
	return &AuthService{store: store, jwtSecret: []byte(jwtSecret)}
}

func validateCredentials(username, password string) error {
	if len(username) < 3 || len(username) > 20 {
		return &models.ValidationError{Field: "username", Reason: "username must be between 3 and 20 characters"}
	}
	if len(password) < 6 {
		return &models.ValidationError{Field: "password", Reason: "password must be at least 6 characters"}
	}
	return nil
}

func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, &models.ValidationError{Field: "email", Reason: "invalid email address"}
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, existing := range s.store.users {
		if existing.Username == username {
			return nil, fmt.Errorf("user with username already exists")
		}
		if existing.Email == email {
			return nil, fmt.Errorf("user with email already exists")
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	s.store.users[user.ID] = user

	return &user, nil
}

func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	s.store.mu.RLock()
	var found *models.User
	for _, user := range s.store.users {
		if user.Username == username {
			u := user
			found = &u
			break
		}
	}
	s.store.mu.RUnlock()

	if found == nil {
		return nil, "", fmt.Errorf("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid username or password")
	}

	token, err := s.GenerateToken(found)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}
	return found, token, nil
}

// GenerateToken signs a 24h HS256 token for the user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("token has expired")
	}
	return claims, nil
}

// EnsureAdmin creates the admin account on first start so the overview
// endpoints are reachable out of the box.
func (s *AuthService) EnsureAdmin(password string) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, user := range s.store.users {
		if user.Role == models.RoleAdmin {
			u := user
			return &u, nil
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	admin := models.User{
		ID:        uuid.New().String(),
		Username:  "admin",
		Email:     "admin@localhost",
		Password:  string(hashedPassword),
		Role:      models.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	s.store.users[admin.ID] = admin
	return &admin, nil
}
