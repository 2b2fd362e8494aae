package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskroster/taskroster/internal/user"
	"github.com/taskroster/taskroster/pkg/cerr"
	"github.com/taskroster/taskroster/pkg/clog"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
	maxMobileLength   = 20
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
}

type tokenResponse struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresIn int64  `json:"expires_in"`
}

type signinResponse struct {
	User userResponse `json:"user"`
	tokenResponse
}

// Server serves the unauthenticated account routes.
type Server struct {
	users    user.Repository
	issuer   *TokenIssuer
	store    RefreshStore
	hashCost int
	now      func() time.Time
}

func NewServer(users user.Repository, issuer *TokenIssuer, store RefreshStore) *Server {
	return &Server{
		users:    users,
		issuer:   issuer,
		store:    store,
		hashCost: bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/users/signup", s.handleSignup)
	r.Post("/users/signin", s.handleSignin)
	r.Post("/users/token/refresh", s.handleRefresh)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(w, r, &req); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	u, err := s.signup(r.Context(), req)
	if err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	cerr.SetJSONResponse(r.Context(), toResponse(u))
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decode(w, r, &req); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	resp, err := s.signin(r.Context(), req)
	cerr.SetJSONResult(r.Context(), resp, err)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(w, r, &req); err != nil {
		cerr.SetJSONError(r.Context(), err)
		return
	}
	resp, err := s.refresh(r.Context(), req.RefreshToken)
	cerr.SetJSONResult(r.Context(), resp, err)
}

// signup creates an active user without permissions. The username is the
// local part of the email address.
func (s *Server) signup(ctx context.Context, req signupRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var violations []string
	addr, err := mail.ParseAddress(email)
	if email == "" {
		violations = append(violations, "email is required")
	} else if err != nil || addr.Address != email {
		violations = append(violations, "email is invalid")
	}
	if n := len(req.Password); n < minPasswordLength || n > maxPasswordLength {
		violations = append(violations,
			fmt.Sprintf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength))
	}
	if len(req.Mobile) > maxMobileLength {
		violations = append(violations, fmt.Sprintf("mobile must be at most %d characters", maxMobileLength))
	}
	if len(violations) > 0 {
		return nil, cerr.NewValidationError("invalid signup", violations...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to hash password: %w", err))
	}
	username, _, _ := strings.Cut(email, "@")
	now := s.now()
	u := &user.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		Mobile:       strings.TrimSpace(req.Mobile),
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if cerr.IsCode(err, cerr.AlreadyExists) {
			return nil, cerr.NewError(cerr.AlreadyExists, "a user with this email already exists", err)
		}
		return nil, err
	}
	return u, nil
}

func (s *Server) signin(ctx context.Context, req signinRequest) (*signinResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	var violations []string
	if email == "" {
		violations = append(violations, "email is required")
	}
	if req.Password == "" {
		violations = append(violations, "password is required")
	}
	if len(violations) > 0 {
		return nil, cerr.NewValidationError("invalid signin", violations...)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, cerr.NewError(cerr.Unauthenticated, "user is inactive", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid credentials", err)
	}

	tokens, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	clog.AddUser(ctx, u.ID)
	return &signinResponse{User: toResponse(u), tokenResponse: *tokens}, nil
}

// refresh exchanges a refresh token for a new pair. Each refresh token is
// accepted once.
func (s *Server) refresh(ctx context.Context, refreshToken string) (*tokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, cerr.NewValidationError("invalid refresh", "refresh_token is required")
	}
	claims, err := s.issuer.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid refresh token", err)
	}
	userID, err := s.store.Consume(ctx, claims.ID)
	if errors.Is(err, ErrRefreshTokenNotFound) {
		return nil, cerr.NewError(cerr.Unauthenticated, "refresh token was already used or has expired", err)
	}
	if err != nil {
		return nil, cerr.NewError(cerr.Unavailable, "token store unavailable", err)
	}
	if userID != claims.Subject {
		return nil, cerr.NewError(cerr.Unauthenticated, "invalid refresh token", nil)
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if cerr.IsCode(err, cerr.NotFound) {
			return nil, cerr.NewError(cerr.Unauthenticated, "invalid refresh token", err)
		}
		return nil, err
	}
	if !u.Active {
		return nil, cerr.NewError(cerr.Unauthenticated, "user is inactive", nil)
	}
	clog.AddUser(ctx, u.ID)
	return s.issue(ctx, u)
}

func (s *Server) issue(ctx context.Context, u *user.User) (*tokenResponse, error) {
	pair, err := s.issuer.Issue(u.ID, u.Email)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", err)
	}
	if err := s.store.Save(ctx, pair.RefreshJTI, u.ID, s.issuer.RefreshTTL()); err != nil {
		return nil, cerr.NewError(cerr.Unavailable, "token store unavailable", err)
	}
	return &tokenResponse{
		Access:    pair.Access,
		Refresh:   pair.Refresh,
		ExpiresIn: int64(pair.ExpiresIn / time.Second),
	}, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return cerr.NewError(cerr.InvalidArgument, "invalid request body", err)
	}
	return nil
}

func toResponse(u *user.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name,
		Mobile:   u.Mobile,
	}
}
