package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
)

// Detail messages.
const (
	DetailEmailTaken         = "Email already registered"
	DetailIncorrectLogin     = "Incorrect credentials"
	DetailNotAuthenticated   = "Not authenticated"
	DetailInvalidCredentials = "Could not validate credentials"
	DetailTodoNotFound       = "Todo not found"
	DetailInternal           = "Internal Server Error"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// TodoIDVar is the route variable holding the todo id.
const TodoIDVar = "todo_id"

// Handler serves the backend endpoints.
type Handler struct {
	backend *Backend
	tokens  *TokenIssuer
	logger  logger.Logger
}

// New creates a Handler.
func New(backend *Backend, tokens *TokenIssuer, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{backend: backend, tokens: tokens, logger: log}
}

// Tokens returns the issuer used to sign and verify access tokens.
func (h *Handler) Tokens() *TokenIssuer { return h.tokens }

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, StatusResponse{Status: "Backend Running"})
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	creds := req.credentials()
	profile, err := h.backend.CreateUser(creds.Email, creds.Password)
	switch {
	case errors.Is(err, ErrEmailTaken):
		WriteDetail(w, http.StatusBadRequest, DetailEmailTaken)
		return
	case err != nil:
		h.internal(w, r, "create user", err)
		return
	}
	h.log(r).Info("user registered", "user_id", profile.ID)
	WriteJSON(w, http.StatusOK, profile)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	creds := req.credentials()
	profile, err := h.backend.Authenticate(creds.Email, creds.Password)
	if err != nil {
		WriteDetail(w, http.StatusUnauthorized, DetailIncorrectLogin)
		return
	}
	token, err := h.tokens.Issue(profile.ID)
	if err != nil {
		h.internal(w, r, "issue token", err)
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w, DetailNotAuthenticated)
		return
	}
	profile, err := h.backend.User(uid)
	if err != nil {
		WriteUnauthorized(w, DetailInvalidCredentials)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

// ListTodos handles GET /todos.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.owner(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, h.backend.ListTodos(uid))
}

// CreateTodo handles POST /todos.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.owner(w, r)
	if !ok {
		return
	}
	var req createTodoRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	WriteJSON(w, http.StatusOK, h.backend.CreateTodo(uid, *req.Title))
}

// PatchTodo handles PATCH /todos/{todo_id}.
func (h *Handler) PatchTodo(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	var patch domain.TodoPatch
	if !h.decode(w, r, &patch) {
		return
	}
	if errs := validatePatch(patch); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	t, err := h.backend.UpdateTodo(uid, id, patch)
	if err != nil {
		WriteDetail(w, http.StatusNotFound, DetailTodoNotFound)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

// DeleteTodo handles DELETE /todos/{todo_id}.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	if err := h.backend.DeleteTodo(uid, id); err != nil {
		WriteDetail(w, http.StatusNotFound, DetailTodoNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// owner resolves the caller and checks the account still exists.
func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	uid, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w, DetailNotAuthenticated)
		return 0, false
	}
	if _, err := h.backend.User(uid); err != nil {
		WriteUnauthorized(w, DetailInvalidCredentials)
		return 0, false
	}
	return uid, true
}

func todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)[TodoIDVar]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeValidation(w, []FieldError{{
			Type: "int_parsing",
			Loc:  []string{"path", TodoIDVar},
			Msg:  "Input should be a valid integer, unable to parse string as an integer",
		}})
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		h.log(r).Debug("invalid request body", "error", err)
		writeValidation(w, []FieldError{{Type: "json_invalid", Loc: []string{"body"}, Msg: "JSON decode error"}})
		return false
	}
	return true
}

func (h *Handler) log(r *http.Request) logger.Logger {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return h.logger.With("request_id", id)
	}
	return h.logger
}

func (h *Handler) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log(r).Error("internal error", "op", op, "error", err)
	WriteDetail(w, http.StatusInternalServerError, DetailInternal)
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes {"detail": msg}.
func WriteDetail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Detail: msg})
}

// WriteUnauthorized writes a 401 with the Bearer challenge.
func WriteUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteDetail(w, http.StatusUnauthorized, msg)
}

func writeValidation(w http.ResponseWriter, errs []FieldError) {
	WriteJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Detail: errs})
}
