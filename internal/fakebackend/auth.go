package fakebackend

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/flightbook/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL   = 24 * time.Hour
	userIDKey  = "userID"
	authPrefix = "Bearer "
)

func (s *Server) register(c *gin.Context) {
	var req domain.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		abort(c, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		abort(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		abort(c, http.StatusBadRequest, "User already exists")
		return
	}
	acc := &account{
		user: domain.User{
			ID:            uuid.NewString(),
			Name:          req.Name,
			Email:         req.Email,
			WalletBalance: domain.Rupees(s.cfg.StartingBalance),
		},
		passwordHash: hash,
	}
	s.accounts[req.Email] = acc
	user := acc.user
	s.mu.Unlock()

	s.respondWithToken(c, http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(req.Email))]
	var user domain.User
	var hash []byte
	if ok {
		user, hash = acc.user, acc.passwordHash
	}
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		abort(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.respondWithToken(c, http.StatusOK, user)
}

func (s *Server) wallet(c *gin.Context) {
	acc, ok := s.accountByID(c.GetString(userIDKey))
	if !ok {
		abort(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, domain.Wallet{WalletBalance: acc.WalletBalance})
}

func (s *Server) respondWithToken(c *gin.Context, status int, user domain.User) {
	token, err := s.issueToken(user.ID)
	if err != nil {
		abort(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	user.Token = token
	c.JSON(status, user)
}

func (s *Server) issueToken(userID string) (string, error) {
	issued := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(tokenTTL)),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *Server) parseToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, authPrefix) {
		abort(c, http.StatusUnauthorized, "Not authorized, no token")
		return
	}
	userID, err := s.parseToken(strings.TrimPrefix(header, authPrefix))
	if err != nil {
		abort(c, http.StatusUnauthorized, "Not authorized, token failed")
		return
	}
	if _, ok := s.accountByID(userID); !ok {
		abort(c, http.StatusUnauthorized, "Not authorized, user not found")
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

// accountByID returns a copy of the user record.
func (s *Server) accountByID(id string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.findAccountLocked(id)
	if acc == nil {
		return domain.User{}, false
	}
	return acc.user, true
}

func (s *Server) findAccountLocked(id string) *account {
	for _, acc := range s.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}
