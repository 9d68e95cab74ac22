package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	mW "github.com/harambee/backend/internal/middleware"
	"github.com/harambee/backend/internal/models"
	"github.com/harambee/backend/internal/services"
)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#f0f0f0"/><path d="M100 60c-22.1 0-40 17.9-40 40s17.9 40 40 40 40-17.9 40-40-17.9-40-40-40zm0 65c-13.8 0-25-11.2-25-25s11.2-25 25-25 25 11.2 25 25-11.2 25-25 25z" fill="#999"/><text x="100" y="170" text-anchor="middle" font-family="Arial" font-size="14" fill="#666">PROPOSAL</text></svg>`

type ProposalHandler struct {
	service        *services.ProposalService
	validator      *services.ValidationHelper
	uploadMaxBytes int64
}

func NewProposalHandler(service *services.ProposalService, uploadMaxBytes int64) *ProposalHandler {
	return &ProposalHandler{
		service:        service,
		validator:      services.NewValidationHelper(),
		uploadMaxBytes: uploadMaxBytes,
	}
}

// CreateProposal submits a funding proposal
// @Summary Create proposal
// @Description Accepts JSON or multipart form data. The multipart form may carry an optional image.
// @Tags Proposals
// @Accept json,mpfd
// @Produce json
// @Param request body services.CreateProposalRequest true "Proposal"
// @Success 200 {object} object{id=string}
// @Failure 400 {object} services.ErrorResponse
// @Router /proposals [post]
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	var (
		req services.CreateProposalRequest
		img *models.ProposalImage
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		var ok bool
		req, img, ok = h.parseProposalForm(w, r)
		if !ok {
			return
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), req, img)
	if err != nil {
		sendError(w, r, "PROPOSAL", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": p.ID})
}

func (h *ProposalHandler) parseProposalForm(w http.ResponseWriter, r *http.Request) (services.CreateProposalRequest, *models.ProposalImage, bool) {
	var req services.CreateProposalRequest

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			services.SendErrorResponse(w, "Upload too large", http.StatusRequestEntityTooLarge, nil)
			return req, nil, false
		}
		services.SendErrorResponse(w, "Invalid form data", http.StatusBadRequest, nil)
		return req, nil, false
	}

	req.Title = r.FormValue("title")
	req.WalletAddress = r.FormValue("walletAddress")
	req.Description = r.FormValue("description")
	if raw := r.FormValue("amount"); raw != "" {
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			services.SendErrorResponse(w, "amount must be a number", http.StatusBadRequest, nil)
			return req, nil, false
		}
		req.Amount = amount
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, true
	}
	if err != nil {
		services.SendErrorResponse(w, "Invalid image upload", http.StatusBadRequest, nil)
		return req, nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		services.SendErrorResponse(w, "Invalid image upload", http.StatusBadRequest, nil)
		return req, nil, false
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return req, &models.ProposalImage{ContentType: contentType, Data: data}, true
}

// GetProposal returns a proposal
// @Summary Get proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} models.Proposal
// @Failure 404 {object} services.ErrorResponse
// @Router /proposals/{id} [get]
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "PROPOSAL", err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// GetVotes returns the vote tally
// @Summary Proposal votes
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} models.VoteTally
// @Failure 404 {object} services.ErrorResponse
// @Router /proposals/{id}/votes [get]
func (h *ProposalHandler) GetVotes(w http.ResponseWriter, r *http.Request) {
	tally, err := h.service.Votes(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "PROPOSAL", err)
		return
	}

	writeJSON(w, http.StatusOK, tally)
}

// CastVote records the member's ballot
// @Summary Cast vote
// @Description One ballot per member. Repeating the same choice is a no-op; changing it is rejected.
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Proposal ID"
// @Param request body object{choice=string} true "yes or no"
// @Success 200 {object} models.VoteTally
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /proposals/{id}/votes [post]
func (h *ProposalHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	sess, _ := mW.SessionFromContext(r.Context())

	var req struct {
		Choice string `json:"choice" validate:"required,oneof=yes no"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	tally, err := h.service.CastVote(chi.URLParam(r, "id"), sess.Phone, req.Choice)
	if err != nil {
		sendError(w, r, "PROPOSAL", err)
		return
	}

	writeJSON(w, http.StatusOK, tally)
}

// StartSMSVoting announces that voting opened
// @Summary Start SMS voting
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} object{ok=bool}
// @Failure 404 {object} services.ErrorResponse
// @Router /proposals/{id}/start-sms-voting [post]
func (h *ProposalHandler) StartSMSVoting(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.StartSMSVoting(chi.URLParam(r, "id")); err != nil {
		sendError(w, r, "PROPOSAL", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// VerifyAI checks a proposal against the treasury
// @Summary Verify proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} models.Proposal
// @Failure 404 {object} services.ErrorResponse
// @Router /proposals/{id}/verify-ai [post]
func (h *ProposalHandler) VerifyAI(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.VerifyAI(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "PROPOSAL", err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// GetImage serves the proposal image or a placeholder
// @Summary Proposal image
// @Tags Proposals
// @Produce image/png,image/jpeg,image/svg+xml
// @Param id path string true "Proposal ID"
// @Success 200 {file} binary
// @Failure 404 {object} services.ErrorResponse
// @Router /proposals/{id}/image [get]
func (h *ProposalHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.service.Image(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "PROPOSAL", err)
		return
	}

	if img == nil {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(placeholderSVG))
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=2592000")
	w.Write(img.Data)
}

// GetWalletQR encodes the payout wallet as a QR code
// @Summary Wallet QR code
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} services.WalletQR
// @Failure 404 {object} services.ErrorResponse
// @Router /proposals/{id}/wallet-qr [get]
func (h *ProposalHandler) GetWalletQR(w http.ResponseWriter, r *http.Request) {
	qr, err := h.service.WalletQR(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "PROPOSAL", err)
		return
	}

	writeJSON(w, http.StatusOK, qr)
}
