// Package login issues bearer tokens: account registration, username and
// password login, and access token refresh.
package login

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	userstore "github.com/dealroom-et/dealroom/internal/app/store/users"
	"github.com/dealroom-et/dealroom/internal/app/system/apiutil"
	"github.com/dealroom-et/dealroom/internal/app/system/auditlog"
	"github.com/dealroom-et/dealroom/internal/app/system/auth"
	"github.com/dealroom-et/dealroom/internal/app/system/inputval"
	"github.com/dealroom-et/dealroom/internal/app/system/timeouts"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Audit  *auditlog.Logger
	Tokens *auth.TokenService

	users *userstore.Store
}

func NewHandler(db *mongo.Database, tokens *auth.TokenService, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		Audit:  audit,
		Tokens: tokens,
		users:  userstore.New(db),
	}
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const minPasswordLen = 8

type registerInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (in registerInput) validate() inputval.Errors {
	errs := inputval.Errors{}
	if errs.Required("username", in.Username) && errs.MaxLen("username", in.Username, 150) &&
		!usernamePattern.MatchString(in.Username) {
		errs.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	errs.Email("email", in.Email)
	errs.MaxLen("first_name", in.FirstName, 150)
	errs.MaxLen("last_name", in.LastName, 150)
	if errs.Required("password", in.Password) {
		errs.MinLen("password", in.Password, minPasswordLen, "This password is too short. It must contain at least 8 characters.")
	}
	return errs
}

type registerResponse struct {
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// Register handles POST /auth/register. New accounts are never staff.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	if errs := in.validate(); errs.HasErrors() {
		apiutil.JSON(w, http.StatusBadRequest, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.users.Create(ctx, models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}, in.Password)
	switch {
	case errors.Is(err, userstore.ErrDuplicateUsername):
		apiutil.JSON(w, http.StatusBadRequest, inputval.Errors{"username": {"A user with that username already exists."}})
		return
	case errors.Is(err, userstore.ErrDuplicateEmail):
		apiutil.JSON(w, http.StatusBadRequest, inputval.Errors{"email": {"A user with this email already exists."}})
		return
	case err != nil:
		apiutil.ServerError(w, h.Log, "create user failed", err)
		return
	}
	h.Audit.UserRegistered(ctx, r, u.Username)
	apiutil.JSON(w, http.StatusCreated, registerResponse{User: u, Message: "User created successfully"})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login and returns an access and refresh pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	errs := inputval.Errors{}
	errs.Required("username", in.Username)
	errs.Required("password", in.Password)
	if errs.HasErrors() {
		apiutil.JSON(w, http.StatusBadRequest, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.users.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrInvalidCredentials) {
			h.Audit.LoginFailed(ctx, r, in.Username, "invalid_credentials")
			apiutil.Detail(w, http.StatusUnauthorized, "No active account found with the given credentials")
			return
		}
		apiutil.ServerError(w, h.Log, "authenticate failed", err)
		return
	}
	pair, err := h.Tokens.IssuePair(u)
	if err != nil {
		apiutil.ServerError(w, h.Log, "issue tokens failed", err)
		return
	}
	h.Audit.LoginSucceeded(ctx, r, u.Username, false)
	apiutil.JSON(w, http.StatusOK, pair)
}

type invalidToken struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// Refresh handles POST /auth/refresh: {"refresh"} in, {"access"} out. The
// user is reloaded so a deactivated account cannot refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	if !apiutil.DecodeOrReject(w, r, &in) {
		return
	}
	if in.Refresh == "" {
		apiutil.JSON(w, http.StatusBadRequest, inputval.Errors{"refresh": {"This field is required."}})
		return
	}
	reject := func() {
		apiutil.JSON(w, http.StatusUnauthorized, invalidToken{Detail: "Token is invalid or expired", Code: "token_not_valid"})
	}

	userID, err := h.Tokens.ParseRefresh(in.Refresh)
	if err != nil {
		reject()
		return
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		reject()
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			reject()
			return
		}
		apiutil.ServerError(w, h.Log, "load user failed", err)
		return
	}
	if !u.IsActive {
		reject()
		return
	}
	access, err := h.Tokens.IssueAccess(u)
	if err != nil {
		apiutil.ServerError(w, h.Log, "issue access token failed", err)
		return
	}
	apiutil.JSON(w, http.StatusOK, map[string]string{"access": access})
}
