package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"framerr/internal/pkg/errors"
	"framerr/internal/platform/audit"
	"framerr/internal/platform/models"
	"framerr/internal/platform/repositories"
)

type UserHandler struct {
	userRepo *repositories.UserRepository
	audit    *audit.Logger
}

func NewUserHandler(userRepo *repositories.UserRepository, auditLogger *audit.Logger) *UserHandler {
	return &UserHandler{userRepo: userRepo, audit: auditLogger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List()
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := routeParam(r, "user_id")

	claims := requestClaims(r)
	if claims.Role != "admin" && claims.UserID != userID {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if user == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "User not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID := routeParam(r, "user_id")

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Role != "admin" && req.Role != "user" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Role must be admin or user", nil)
		return
	}

	if claims := requestClaims(r); claims.UserID == userID {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Cannot change your own role", nil)
		return
	}

	if err := h.userRepo.UpdateRole(userID, req.Role); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	h.audit.Log(r.Context(), "user.role_updated", "user", userID, map[string]interface{}{"role": req.Role})
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type UpdateSettingsRequest struct {
	ReceiveUnmatched *bool `json:"receive_unmatched"`
}

// UpdateSettings covers the per-account flags; currently just the admin
// "receive unmatched webhooks" opt-in.
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := routeParam(r, "user_id")

	claims := requestClaims(r)
	if claims.Role != "admin" && claims.UserID != userID {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.ReceiveUnmatched != nil {
		if err := h.userRepo.UpdateReceiveUnmatched(userID, *req.ReceiveUnmatched); err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := routeParam(r, "user_id")

	if claims := requestClaims(r); claims.UserID == userID {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Cannot delete your own account", nil)
		return
	}

	if err := h.userRepo.Delete(userID); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}

	h.audit.Log(r.Context(), "user.deleted", "user", userID, nil)
	w.WriteHeader(http.StatusNoContent)
}

type AddIdentityRequest struct {
	Service          string `json:"service"`
	ExternalUsername string `json:"external_username"`
}

// AddIdentity links an external service username to the account so webhook
// events can be routed back to it.
func (h *UserHandler) AddIdentity(w http.ResponseWriter, r *http.Request) {
	userID := routeParam(r, "user_id")

	claims := requestClaims(r)
	if claims.Role != "admin" && claims.UserID != userID {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
		return
	}

	var req AddIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Service == "" || req.ExternalUsername == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "service and external_username are required", nil)
		return
	}

	identity := &models.ServiceIdentity{
		ID:               "sid_" + uuid.NewString(),
		UserID:           userID,
		Service:          req.Service,
		ExternalUsername: req.ExternalUsername,
		CreatedAt:        time.Now().Unix(),
	}
	if err := h.userRepo.AddIdentity(identity); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusCreated, identity)
}

func (h *UserHandler) ListIdentities(w http.ResponseWriter, r *http.Request) {
	userID := routeParam(r, "user_id")

	claims := requestClaims(r)
	if claims.Role != "admin" && claims.UserID != userID {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
		return
	}

	identities, err := h.userRepo.ListIdentities(userID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"identities": identities})
}

func (h *UserHandler) DeleteIdentity(w http.ResponseWriter, r *http.Request) {
	userID := routeParam(r, "user_id")
	service := routeParam(r, "service")

	claims := requestClaims(r)
	if claims.Role != "admin" && claims.UserID != userID {
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "Insufficient permissions", nil)
		return
	}

	if err := h.userRepo.DeleteIdentity(userID, service); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
