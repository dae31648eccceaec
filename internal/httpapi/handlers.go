package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/vkarpenko/authd/internal/domain/user"
	"github.com/vkarpenko/authd/internal/obs"
	"github.com/vkarpenko/authd/internal/repository/postgres"
	"github.com/vkarpenko/authd/internal/services/auth"
	"github.com/vkarpenko/authd/internal/token"
)

type Server struct {
	log   *zap.Logger
	uc    *auth.Usecase
	users user.Repo
}

func NewServer(log *zap.Logger, uc *auth.Usecase, users user.Repo) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{log: log, uc: uc, users: users}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User *user.User `json:"user"`
	token.Pair
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, KindValidation, "email and password are required")
		return
	}

	rec, pair, err := s.uc.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(r.Context(), w, "auth.register", err)
		return
	}
	s.pairIssued()
	writeJSON(w, http.StatusCreated, authResponse{User: rec, Pair: pair})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindBadRequest, "invalid request body")
		return
	}

	rec, pair, err := s.uc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(r.Context(), w, "auth.login", err)
		return
	}
	s.pairIssued()
	writeJSON(w, http.StatusOK, authResponse{User: rec, Pair: pair})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, KindUnauthorized, "could not validate credentials")
		return
	}

	pair, err := s.uc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.fail(r.Context(), w, "auth.refresh", err)
		return
	}
	s.pairIssued()
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	rec, err := s.uc.CurrentUser(r.Context(), bearerToken(r))
	if err != nil {
		s.fail(r.Context(), w, "users.me", err)
		return
	}
	if err := auth.CurrentActiveUser(rec); err != nil {
		s.fail(r.Context(), w, "users.me", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleWhoami serves logged-in-or-anonymous clients: any auth problem
// degrades to a null user instead of a 401.
func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	rec := s.uc.OptionalUser(r.Context(), bearerToken(r))
	writeJSON(w, http.StatusOK, map[string]*user.User{"user": rec})
}

func (s *Server) handleAdminGetUser(w http.ResponseWriter, r *http.Request) {
	rec, err := s.uc.CurrentUser(r.Context(), bearerToken(r))
	if err != nil {
		s.fail(r.Context(), w, "admin.users.get", err)
		return
	}
	if err := auth.RequireSuperuser(rec); err != nil {
		s.fail(r.Context(), w, "admin.users.get", err)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, KindValidation, "id must be a positive integer")
		return
	}
	target, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			writeError(w, KindNotFound, "user not found")
			return
		}
		s.fail(r.Context(), w, "admin.users.get", auth.ErrDirectoryUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// fail maps a usecase error onto the wire and logs the internal cause
// the response deliberately hides.
func (s *Server) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	kind, msg := classify(err)
	log := obs.WithTrace(ctx, s.log)

	switch kind {
	case KindUnauthorized:
		cause := token.RejectionCause(err)
		obs.TokenRejected(cause)
		log.Warn(op, zap.String("cause", cause), zap.Int("status", kindTable[kind].Status))
	case KindUnavailable, KindInternal:
		log.Error(op, zap.Error(err), zap.Int("status", kindTable[kind].Status))
	default:
		log.Warn(op, zap.Error(err), zap.Int("status", kindTable[kind].Status))
	}
	writeError(w, kind, msg)
}

func (s *Server) pairIssued() {
	obs.TokenIssued(string(token.KindAccess))
	obs.TokenIssued(string(token.KindRefresh))
}
