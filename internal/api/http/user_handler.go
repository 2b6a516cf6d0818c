package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// RegisterPublic mounts the endpoints that do not require a token.
func (h *UserHandler) RegisterPublic(r *mux.Router) {
	r.HandleFunc("/register", h.RegisterUser).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
}

func (h *UserHandler) Register(r *mux.Router) {
	r.HandleFunc("", h.List).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/{id:[0-9]+}", h.Deactivate).Methods(http.MethodDelete)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	RealName string `json:"real_name"`
}

func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.userSvc.Register(r.Context(), req.Username, req.Password, req.Email, req.Phone, req.RealName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, access, refresh, err := h.userSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, loginResponse{User: user, AccessToken: access, RefreshToken: refresh})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.userSvc.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var user domain.User
	if err := decodeBody(r, &user); err != nil {
		writeError(w, err)
		return
	}
	user.ID = id
	if err := h.userSvc.UpdateUser(r.Context(), &user); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, &user)
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.userSvc.DeactivateUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "user deactivated")
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := int32(1)
	pageSize := int32(50)
	if v, err := queryInt(r, "page"); err == nil {
		page = int32(v)
	}
	if v, err := queryInt(r, "pageSize"); err == nil {
		pageSize = int32(v)
	}
	users, total, err := h.userSvc.ListUsers(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"users": users, "total": total})
}
