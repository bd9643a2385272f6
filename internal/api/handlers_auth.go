// Safewatch - Tourist Safety Tracking and Risk Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safewatch

package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/safewatch/internal/auth"
	"github.com/tomtom215/safewatch/internal/config"
	"github.com/tomtom215/safewatch/internal/database"
	"github.com/tomtom215/safewatch/internal/logging"
)

// RegisterResponse is returned by tourist registration. Token is set only
// when the tourist was created; a returning device must log in.
type RegisterResponse struct {
	Tourist *database.Tourist `json:"tourist"`
	Created bool              `json:"created"`
	Token   *auth.Token       `json:"token,omitempty"`
}

// LoginResponse is returned by both login endpoints.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Role      string            `json:"role"`
	Tourist   *database.Tourist `json:"tourist,omitempty"`
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// equalizeTiming runs one bcrypt comparison so an unknown email costs as
// much as a wrong password.
func (h *Handler) equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = auth.HashPassword("safewatch-timing-equalizer", h.bcryptCost)
	})
	auth.CheckPassword(dummyHash, password)
}

// Register registers a tourist device, or returns the existing record for
// a known device_id.
//
// @Summary Register a tourist
// @Description Idempotent by device_id. A device ID is generated when omitted.
// @Tags Tourists
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Tourist details"
// @Success 200 {object} APIResponse{data=RegisterResponse} "Already registered"
// @Success 201 {object} APIResponse{data=RegisterResponse} "Registered"
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse "Email already registered"
// @Router /tourists/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.DeviceID == "" {
		req.DeviceID = uuid.NewString()
	}

	var passwordHash string
	if req.Password != "" {
		if err := config.TouristPasswordPolicy().Check(req.Password, req.Email); err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeWeakPassword, err.Error(), nil)
			return
		}

		existing, err := h.db.GetTouristByEmail(r.Context(), req.Email)
		switch {
		case err == nil && existing.DeviceID != req.DeviceID:
			respondError(w, http.StatusConflict, ErrCodeConflict, "email is already registered", nil)
			return
		case err != nil && !errors.Is(err, database.ErrNotFound):
			respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to register tourist", err)
			return
		}

		passwordHash, err = auth.HashPassword(req.Password, h.bcryptCost)
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to register tourist", err)
			return
		}
	}

	tourist, created, err := h.db.RegisterTourist(r.Context(), database.NewTourist{
		DeviceID:     req.DeviceID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "failed to register tourist", err)
		return
	}

	resp := RegisterResponse{Tourist: tourist, Created: created}
	if h.jwtManager != nil && created {
		token, err := h.jwtManager.IssueTouristToken(tourist.ID, tourist.Email)
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to issue token", err)
			return
		}
		resp.Token = token
	}

	h.audit.Log(logging.AuthEvent{
		Event:    logging.AuthEventRegister,
		Role:     auth.RoleTourist,
		Subject:  tourist.DeviceID,
		Identity: tourist.Email,
		IP:       r.RemoteAddr,
		Success:  true,
	})

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondSuccess(w, status, resp, start)
}

// TouristLogin exchanges a tourist's email and password for a token.
//
// @Summary Tourist login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body TouristLoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=LoginResponse}
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Failure 403 {object} APIResponse "Authentication disabled"
// @Router /auth/tourist/login [post]
func (h *Handler) TouristLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.jwtManager == nil {
		respondError(w, http.StatusForbidden, ErrCodeAuthDisabled, "authentication is disabled", nil)
		return
	}

	var req TouristLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	tourist, err := h.db.GetTouristByEmail(r.Context(), email)
	switch {
	case errors.Is(err, database.ErrNotFound):
		h.equalizeTiming(req.Password)
		h.loginFailed(w, r, auth.RoleTourist, email, "unknown email")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "login failed", err)
		return
	}

	if !auth.CheckPassword(tourist.PasswordHash, req.Password) {
		h.loginFailed(w, r, auth.RoleTourist, email, "password mismatch")
		return
	}

	token, err := h.jwtManager.IssueTouristToken(tourist.ID, tourist.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to issue token", err)
		return
	}

	h.loginSucceeded(r, auth.RoleTourist, email)
	respondSuccess(w, http.StatusOK, LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Role:      token.Role,
		Tourist:   tourist,
	}, start)
}

// PoliceLogin exchanges the officer credentials for a token.
//
// @Summary Police login
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body PoliceLoginRequest true "Credentials"
// @Success 200 {object} APIResponse{data=LoginResponse}
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Failure 403 {object} APIResponse "Authentication disabled"
// @Router /auth/police/login [post]
func (h *Handler) PoliceLogin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.jwtManager == nil || h.officer == nil {
		respondError(w, http.StatusForbidden, ErrCodeAuthDisabled, "authentication is disabled", nil)
		return
	}

	var req PoliceLoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.officer.Verify(req.Username, req.Password); err != nil {
		h.loginFailed(w, r, auth.RolePolice, req.Username, "invalid credentials")
		return
	}

	token, err := h.jwtManager.IssuePoliceToken(h.officer.Username())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to issue token", err)
		return
	}

	h.loginSucceeded(r, auth.RolePolice, req.Username)
	respondSuccess(w, http.StatusOK, LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		Role:      token.Role,
	}, start)
}

// Logout revokes the presented token until it expires.
//
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required", nil)
		return
	}

	revoked := false
	if h.revoker != nil {
		if err := h.revoker.Revoke(r.Context(), claims); err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to revoke token", err)
			return
		}
		revoked = true
		auth.TokensRevoked.Inc()
	}

	h.audit.Log(logging.AuthEvent{
		Event:    logging.AuthEventLogout,
		Role:     claims.Role,
		Subject:  claims.Subject,
		Identity: claims.Username,
		IP:       r.RemoteAddr,
		Success:  true,
	})

	respondSuccess(w, http.StatusOK, map[string]bool{"revoked": revoked}, time.Time{})
}

func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, role, identity, reason string) {
	auth.RecordLogin(role, false)
	h.audit.Log(logging.AuthEvent{
		Event:    logging.AuthEventLogin,
		Role:     role,
		Identity: identity,
		IP:       r.RemoteAddr,
		Reason:   reason,
	})
	respondError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid credentials", nil)
}

func (h *Handler) loginSucceeded(r *http.Request, role, identity string) {
	auth.RecordLogin(role, true)
	h.audit.Log(logging.AuthEvent{
		Event:    logging.AuthEventLogin,
		Role:     role,
		Identity: identity,
		IP:       r.RemoteAddr,
		Success:  true,
	})
}
