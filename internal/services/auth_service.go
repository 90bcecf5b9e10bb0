package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ruralpay/ledger/internal/logger"
	"github.com/ruralpay/ledger/internal/middleware"
	"github.com/ruralpay/ledger/internal/models"
	"github.com/ruralpay/ledger/internal/store"
	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"
)

type AuthService struct {
	store      store.Store
	redis      *redis.Client
	validation *ValidationHelper
	log        *logger.Logger
}

// LoginRequest represents the login request payload
// @Description Login request structure
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"` // User email
	Password string `json:"password" validate:"required,min=6" example:"password123"`   // User password
}

// RegisterRequest represents the registration request payload
// @Description Registration request structure
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255" example:"user@example.com"`  // User email address
	Password    string `json:"password" validate:"required,min=6,max=128" example:"password123"`    // User password
	FirstName   string `json:"firstName" validate:"required,min=2,max=100" example:"John"`          // User first name
	LastName    string `json:"lastName" validate:"required,min=2,max=100" example:"Doe"`            // User last name
	PhoneNumber string `json:"phoneNumber" validate:"required,number,len=11" example:"05551234567"` // 11-digit phone number
}

// AuthResponse represents the authentication response
// @Description Authentication response structure
type AuthResponse struct {
	Token string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // JWT token
	User  models.User `json:"user"`                                                    // User information
}

// UserAccountResponse is the caller's profile together with their accounts.
type UserAccountResponse struct {
	User     models.User      `json:"user"`
	Accounts []models.Account `json:"accounts"`
}

func NewAuthService(st store.Store, redisClient *redis.Client, log *logger.Logger) *AuthService {
	return &AuthService{
		store:      st,
		redis:      redisClient,
		validation: NewValidationHelper(),
		log:        log,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user with email, password, and name
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse "Registration successful"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Email already exists"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	s.log.Info("[AUTH] registration attempt", "ip", r.RemoteAddr)

	var req RegisterRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		s.log.Info("[AUTH] registration failed - invalid request", "error", err)
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}
	if err := s.validation.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		s.log.Error("[AUTH] password hashing failed", "error", err)
		SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	user := &models.User{
		Email:        strings.ToLower(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hashedPassword,
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			SendErrorResponse(w, "Email Already Exists", http.StatusConflict, nil)
			return
		}
		s.log.Error("[AUTH] user creation failed", "email", user.Email, "error", err)
		SendErrorResponse(w, "Failed to create user", http.StatusInternalServerError, nil)
		return
	}

	token, err := generateJWT(user.ID)
	if err != nil {
		s.log.Error("[AUTH] JWT generation failed", "userId", user.ID, "error", err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	s.log.Info("[AUTH] user created", "userId", user.ID)
	WriteJSON(w, http.StatusCreated, AuthResponse{Token: token, User: *user})
}

// Login handles user authentication
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse "Login successful"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}
	if err := s.validation.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("[AUTH] user lookup failed", "error", err)
			SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
			return
		}
		s.log.Info("[AUTH] login for unknown email")
		SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}

	if !verifyPassword(req.Password, user.PasswordHash) {
		s.log.Info("[AUTH] invalid password", "userId", user.ID)
		SendErrorResponse(w, "Invalid credentials", http.StatusUnauthorized, nil)
		return
	}

	token, err := generateJWT(user.ID)
	if err != nil {
		s.log.Error("[AUTH] JWT generation failed", "userId", user.ID, "error", err)
		SendErrorResponse(w, "Failed to generate token", http.StatusInternalServerError, nil)
		return
	}

	s.log.Info("[AUTH] login successful", "userId", user.ID)
	WriteJSON(w, http.StatusOK, AuthResponse{Token: token, User: *user})
}

// Logout handles user logout
// @Summary Logout user
// @Description Logout user and blacklist token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logout successful"
// @Router /auth/logout [post]
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.BearerToken(r); ok && s.redis != nil {
		expiry := time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour
		if err := s.redis.Set(r.Context(), middleware.BlacklistKey(token), "1", expiry).Err(); err != nil {
			s.log.Warn("[AUTH] failed to blacklist token", "error", err)
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// GetUserAccount retrieves user account details from auth token
// @Summary Get user account details
// @Description Get the authenticated user's profile and accounts
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserAccountResponse "User account details"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/account [get]
func (s *AuthService) GetUserAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			SendErrorResponse(w, "User not found", http.StatusNotFound, nil)
			return
		}
		s.log.Error("[AUTH] failed to fetch user", "userId", userID, "error", err)
		SendErrorResponse(w, "Failed to fetch user details", http.StatusInternalServerError, nil)
		return
	}

	accounts, err := s.store.ListAccountsByOwner(r.Context(), userID)
	if err != nil {
		s.log.Error("[AUTH] failed to fetch accounts", "userId", userID, "error", err)
		SendErrorResponse(w, "Failed to fetch user details", http.StatusInternalServerError, nil)
		return
	}

	WriteJSON(w, http.StatusOK, UserAccountResponse{User: *user, Accounts: accounts})
}

func generateJWT(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Duration(viper.GetInt("jwt.expiry_hours")) * time.Hour).Unix(),
	})

	return token.SignedString([]byte(viper.GetString("jwt.secret_key")))
}

func argon2Key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt,
		uint32(viper.GetInt("argon2.time")),
		uint32(viper.GetInt("argon2.memory")),
		uint8(viper.GetInt("argon2.threads")),
		uint32(viper.GetInt("argon2.key_length")))
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, viper.GetInt("argon2.salt_length"))
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	hash := argon2Key(password, salt)
	return base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(hash), nil
}

func verifyPassword(password, hashedPassword string) bool {
	saltPart, hashPart, ok := strings.Cut(hashedPassword, "$")
	if !ok {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(saltPart)
	if err != nil {
		return false
	}
	hash, err := base64.StdEncoding.DecodeString(hashPart)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(hash, argon2Key(password, salt)) == 1
}
