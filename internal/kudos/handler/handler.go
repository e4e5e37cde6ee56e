package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kudos/internal/admin"
	"kudos/internal/kudos/service"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
	"kudos/pkg/requestcontext"
)

// Handler wires the kudos HTTP surface. Signed operations live under
// /admin and run behind the caller-auth middleware; reads are public and
// keep working while the gate is paused.
type Handler struct {
	svc    *service.Service
	gate   *admin.Gate
	auth   func(http.Handler) http.Handler
	logger *slog.Logger
}

// New creates a kudos Handler. auth is the middleware that authenticates
// the relaying caller and places its address in the request context.
func New(svc *service.Service, gate *admin.Gate, auth func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, gate: gate, auth: auth, logger: logger}
}

// Register registers the kudos routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/kudos", h.handleRegister)
		r.Post("/kudos/{tokenID}/claims", h.handleClaim)
		r.Post("/kudos/{tokenID}/allowlist", h.handleAddAllowlist)
		r.Post("/pause", h.handlePause)
		r.Post("/unpause", h.handleUnpause)
	})

	r.Get("/kudos/{tokenID}", h.handleGetMetadata)
	r.Get("/kudos/{tokenID}/contributors", h.handleGetContributors)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	svcReq, err := req.toServiceRequest()
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.svc.RegisterBySig(ctx, svcReq)
	if err != nil {
		h.logFailure(r, "register rejected", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		TokenID: record.TokenID,
		Creator: record.Creator.String(),
	})
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := tokenIDParam(w, r)
	if !ok {
		return
	}
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	claimee, err := id.ParseAddress(req.Claimee)
	if err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid claimee address"))
		return
	}
	sig, err := id.ParseSignature(req.Signature)
	if err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid signature"))
		return
	}

	if err := h.svc.ClaimBySig(ctx, tokenID, claimee, sig); err != nil {
		h.logFailure(r, "claim rejected", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddAllowlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := tokenIDParam(w, r)
	if !ok {
		return
	}
	var req addAllowlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	addrs, err := parseAddresses(req.Addresses)
	if err != nil {
		writeError(w, err)
		return
	}
	sig, err := id.ParseSignature(req.Signature)
	if err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid signature"))
		return
	}

	if err := h.svc.AddAllowlistedAddressesBySig(ctx, tokenID, addrs, sig); err != nil {
		h.logFailure(r, "allowlist edit rejected", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Pause(requestcontext.Caller(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUnpause(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Unpause(requestcontext.Caller(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := tokenIDParam(w, r)
	if !ok {
		return
	}
	record, err := h.svc.GetKudosMetadata(r.Context(), tokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleGetContributors(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := tokenIDParam(w, r)
	if !ok {
		return
	}
	list, err := h.svc.GetAllowlistedContributors(r.Context(), tokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	contributors := make([]string, len(list))
	for i, addr := range list {
		contributors[i] = addr.String()
	}
	writeJSON(w, http.StatusOK, contributorsResponse{TokenID: tokenID, Contributors: contributors})
}

func (h *Handler) logFailure(r *http.Request, msg string, err error) {
	h.logger.WarnContext(r.Context(), msg,
		"request_id", requestcontext.RequestID(r.Context()),
		"code", string(dErrors.CodeOf(err)),
		"error", err.Error(),
	)
}

func tokenIDParam(w http.ResponseWriter, r *http.Request) (id.TokenID, bool) {
	raw := chi.URLParam(r, "tokenID")
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "token id must be a positive integer"))
		return 0, false
	}
	return id.TokenID(parsed), true
}
