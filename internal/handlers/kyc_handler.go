package handlers

import (
	"errors"
	"net/http"
	"time"

	mW "github.com/harambee/backend/internal/middleware"
	"github.com/harambee/backend/internal/models"
	"github.com/harambee/backend/internal/services"
)

type KYCHandler struct {
	service        *services.KYCService
	auth           *AuthHandler
	uploadMaxBytes int64
}

func NewKYCHandler(service *services.KYCService, auth *AuthHandler, uploadMaxBytes int64) *KYCHandler {
	return &KYCHandler{service: service, auth: auth, uploadMaxBytes: uploadMaxBytes}
}

// UploadDocument stores an identity document
// @Summary Upload KYC document
// @Tags KYC
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param document formData file true "Identity document"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /kyc/documents [post]
func (h *KYCHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	sess, _ := mW.SessionFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			services.SendErrorResponse(w, "Document too large", http.StatusRequestEntityTooLarge, nil)
			return
		}
		services.SendErrorResponse(w, "Expected multipart form data", http.StatusBadRequest, nil)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		services.SendErrorResponse(w, "document file is required", http.StatusBadRequest, nil)
		return
	}
	defer file.Close()

	doc := models.KYCDocument{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		UploadedAt:  time.Now(),
	}
	if err := h.service.SubmitDocument(sess.Phone, doc); err != nil {
		sendError(w, r, "KYC", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Status reports the member's KYC status
// @Summary KYC status
// @Description pending until a document has been uploaded
// @Tags KYC
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{status=string}
// @Failure 401 {object} services.ErrorResponse
// @Router /kyc/members/me/documents [get]
func (h *KYCHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess, _ := mW.SessionFromContext(r.Context())
	status, err := h.service.Status(sess.Phone)
	if err != nil {
		sendError(w, r, "KYC", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// Review marks the member verified
// @Summary Review KYC
// @Tags KYC
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{ok=bool}
// @Failure 401 {object} services.ErrorResponse
// @Router /kyc/review [post]
func (h *KYCHandler) Review(w http.ResponseWriter, r *http.Request) {
	sess, _ := mW.SessionFromContext(r.Context())
	user, err := h.service.Review(sess.Phone)
	if err != nil {
		sendError(w, r, "KYC", err)
		return
	}

	h.auth.setKYCCookie(w, user.KYCStatus)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
