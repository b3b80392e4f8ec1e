package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AurelieMous/projet-zombieland/internal/access"
	"github.com/AurelieMous/projet-zombieland/internal/apperr"
	"github.com/AurelieMous/projet-zombieland/internal/config"
	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const CookieName = "auth_token"

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type Claims struct {
	UserID    uint
	Role      models.Role
	ExpiresAt time.Time
}

func (h *AuthHandler) GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(h.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

func (h *AuthHandler) ParseToken(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid token claims")
	}
	userIDFloat, ok := mapClaims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return Claims{}, errors.New("invalid token claims: user_id")
	}
	role, _ := mapClaims["role"].(string)
	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, errors.New("invalid token claims: exp")
	}

	return Claims{UserID: uint(userIDFloat), Role: models.Role(role), ExpiresAt: exp.Time}, nil
}

func (h *AuthHandler) cookie(token string) http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.TokenTTL),
		HttpOnly: true,
		Secure:   !h.cfg.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	}
}

// Register creates a CLIENT account after the registration rules pass.
func (h *AuthHandler) Register(ctx context.Context, r Registration) (models.User, error) {
	r.Email = strings.TrimSpace(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	if err := r.Validate(); err != nil {
		return models.User{}, err
	}

	db := h.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", r.Email).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return models.User{}, apperr.Conflict("email is already registered")
	}
	if err := db.Model(&models.User{}).Where("display_name = ?", r.DisplayName).Count(&count).Error; err != nil {
		return models.User{}, fmt.Errorf("check display name: %w", err)
	}
	if count > 0 {
		return models.User{}, apperr.Conflict("display name is already taken")
	}

	hash, err := HashPassword(r.Password, h.cfg.BcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		PasswordHash: hash,
		Role:         models.RoleClient,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, apperr.FromStore(err, "user")
	}
	return user, nil
}

// Login checks the credentials and issues a session token.
func (h *AuthHandler) Login(ctx context.Context, email, password string) (string, models.User, error) {
	var user models.User
	err := h.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", user, ErrInvalidCredentials
		}
		return "", user, fmt.Errorf("load user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return "", user, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", user, apperr.Forbidden("account is disabled")
	}

	token, err := h.GenerateToken(user)
	if err != nil {
		return "", user, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

type RegisterRequest struct {
	Body struct {
		Email           string `json:"email,omitempty" doc:"Email address"`
		DisplayName     string `json:"display_name,omitempty" doc:"Public display name, 3 to 20 characters"`
		Password        string `json:"password,omitempty" doc:"At least 8 characters with an uppercase letter and a digit"`
		ConfirmPassword string `json:"confirm_password,omitempty" doc:"Must match password"`
	}
}

type UserResponse struct {
	Body models.User
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*UserResponse, error) {
	user, err := h.Register(ctx, Registration{
		Email:           input.Body.Email,
		DisplayName:     input.Body.DisplayName,
		Password:        input.Body.Password,
		ConfirmPassword: input.Body.ConfirmPassword,
	})
	if err != nil {
		return nil, apperr.ToHTTP(err)
	}
	return &UserResponse{Body: user}, nil
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" doc:"Email address"`
		Password string `json:"password" doc:"Password"`
	}
}

type LoginResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		AccessToken string      `json:"access_token"`
		ExpiresIn   int64       `json:"expires_in" doc:"Token lifetime in seconds"`
		User        models.User `json:"user"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	token, user, err := h.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}
		return nil, apperr.ToHTTP(err)
	}

	res := &LoginResponse{SetCookie: h.cookie(token)}
	res.Body.AccessToken = token
	res.Body.ExpiresIn = int64(h.cfg.TokenTTL.Seconds())
	res.Body.User = user
	return res, nil
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *struct{}) (*UserResponse, error) {
	actor, ok := access.FromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, actor.UserID).Error; err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, huma.Error401Unauthorized("authentication required")
		}
		return nil, apperr.ToHTTP(err)
	}
	return &UserResponse{Body: user}, nil
}
