package handlers

import (
	"net/http"

	"github.com/markdave123-py/uniconnect/internal/api/httpx"
	middleware "github.com/markdave123-py/uniconnect/internal/api/middlewares"
	"github.com/markdave123-py/uniconnect/internal/api/validation"
	"github.com/markdave123-py/uniconnect/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type registerRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "users: register", err)
		return
	}

	v := validation.Violations{}
	validation.Required("fullName", req.FullName, v)
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	validation.Required("department", req.Department, v)
	if err := v.Err(); err != nil {
		httpx.Error(w, "users: register", err)
		return
	}

	_, err := h.users.Register(r.Context(), services.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
	})
	if err != nil {
		httpx.Error(w, "users: register", err)
		return
	}
	httpx.Message(w, http.StatusCreated, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "users: login", err)
		return
	}

	v := validation.Violations{}
	validation.Required("email", req.Email, v)
	validation.Required("password", req.Password, v)
	if err := v.Err(); err != nil {
		httpx.Error(w, "users: login", err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, "users: login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		httpx.Error(w, "users: me", err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type profileRequest struct {
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, "users: update", err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), middleware.UserID(r.Context()), req.Bio, req.ProfilePictureURL)
	if err != nil {
		httpx.Error(w, "users: update", err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
