package handlers

import (
	"net/http"
	"time"

	mW "github.com/harambee/backend/internal/middleware"
	"github.com/harambee/backend/internal/services"
)

// KYCCookie mirrors the member's KYC status for the client.
const KYCCookie = "kyc_status"

type AuthHandler struct {
	service       *services.AuthService
	secureCookies bool
}

func NewAuthHandler(service *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookies: secureCookies}
}

// Register creates a member
// @Summary Register member
// @Description Register a member of the demo group with status pending
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration request"
// @Success 200 {object} models.User
// @Failure 400 {object} services.ErrorResponse
// @Router /members [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		sendError(w, r, "AUTH", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// RequestOTP issues a one-time code
// @Summary Request OTP
// @Description Issue a 6-digit code for a phone number. The code is returned in the response; no SMS is sent.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{phone=string} true "OTP request"
// @Success 200 {object} object{ok=bool,otp=string}
// @Failure 400 {object} services.ErrorResponse
// @Router /phone/request-otp [post]
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	code, err := h.service.RequestOTP(r.Context(), req.Phone)
	if err != nil {
		sendError(w, r, "AUTH", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "otp": code})
}

// VerifyOTP opens a session
// @Summary Verify OTP
// @Description Verify the last code issued to a phone and open a session. Sets the auth_token and kyc_status cookies.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{phone=string,otp=string} true "OTP verification"
// @Success 200 {object} object{ok=bool,token=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /phone/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.Phone, req.OTP)
	if err != nil {
		sendError(w, r, "AUTH", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     mW.AuthCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	h.setKYCCookie(w, result.KYCStatus)

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": result.Token})
}

// Logout closes the session
// @Summary Logout
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{ok=bool}
// @Failure 401 {object} services.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := mW.SessionFromContext(r.Context())
	if err := h.service.Logout(r.Context(), sess); err != nil {
		sendError(w, r, "AUTH", err)
		return
	}

	for _, name := range []string{mW.AuthCookie, KYCCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:    name,
			Value:   "",
			Path:    "/",
			Expires: time.Unix(0, 0),
			MaxAge:  -1,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Me returns the signed-in member
// @Summary Current member
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} services.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, _ := mW.SessionFromContext(r.Context())
	user, err := h.service.CurrentUser(sess.Phone)
	if err != nil {
		sendError(w, r, "AUTH", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setKYCCookie(w http.ResponseWriter, status string) {
	http.SetCookie(w, &http.Cookie{
		Name:     KYCCookie,
		Value:    status,
		Path:     "/",
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
