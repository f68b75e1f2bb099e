package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"etfpanel/internal/db"
	m "etfpanel/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const userLocal = "user"

type AuthHandler struct {
	r      UserRetriever
	w      UserSaver
	key    []byte
	expiry time.Duration
}

func NewAuthHandler(r UserRetriever, w UserSaver, authKey string, expiry time.Duration) *AuthHandler {
	return &AuthHandler{
		r:      r,
		w:      w,
		key:    []byte(authKey),
		expiry: expiry,
	}
}

func (h *AuthHandler) InitRoute(app fiber.Router) {

	router := app.Group("/auth")

	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Get("/me", h.AuthMiddleware, h.Me)
}

// Claims represents the JWT claims
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {

	var req RegisterReq
	if err := bodyParse(c, &req); err != nil {
		return err
	}

	exists, err := h.w.UserExists(c.UserContext(), req.Username, req.Email)
	if err != nil {
		return fmt.Errorf("UserExists 조회 오류. %w", err)
	}
	if exists {
		return fiber.NewError(fiber.StatusBadRequest, "username or email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &m.User{Username: req.Username, Email: req.Email, Password: string(hash)}
	err = h.w.CreateUser(c.UserContext(), user)
	if errors.Is(err, db.ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "username or email already registered")
	}
	if err != nil {
		return fmt.Errorf("CreateUser 오류. %w", err)
	}

	token, exp, err := h.issueToken(user)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, "user registered", authResp{
		User:      toUserResp(user),
		Token:     token,
		ExpiresAt: exp.Unix(),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {

	var req LoginReq
	if err := bodyParse(c, &req); err != nil {
		return err
	}

	user, err := h.r.UserByUsername(c.UserContext(), req.Username)
	if err != nil {
		return fmt.Errorf("UserByUsername 조회 오류. %w", err)
	}
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid username or password")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid username or password")
	}

	token, exp, err := h.issueToken(user)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "login successful", authResp{
		User:      toUserResp(user),
		Token:     token,
		ExpiresAt: exp.Unix(),
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "current user", toUserResp(currentUser(c)))
}

func (h *AuthHandler) issueToken(user *m.User) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(h.expiry)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

func (h *AuthHandler) AuthMiddleware(c *fiber.Ctx) error {

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "access denied. no token provided")
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return h.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if errors.Is(err, jwt.ErrTokenExpired) {
		return fiber.NewError(fiber.StatusUnauthorized, "token expired")
	}
	if err != nil || !token.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	user, err := h.r.UserByID(c.UserContext(), claims.UserID)
	if err != nil {
		return fmt.Errorf("UserByID 조회 오류. %w", err)
	}
	if user == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "user not found")
	}

	c.Locals(userLocal, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *m.User {
	user, _ := c.Locals(userLocal).(*m.User)
	return user
}
