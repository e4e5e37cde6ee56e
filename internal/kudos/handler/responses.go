package handler

import (
	"encoding/json"
	"net/http"

	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domain-errors"
)

type registerResponse struct {
	TokenID id.TokenID `json:"token_id"`
	Creator string     `json:"creator"`
}

type contributorsResponse struct {
	TokenID      id.TokenID `json:"token_id"`
	Contributors []string   `json:"contributors"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain error codes onto HTTP statuses. Internal details
// never leak: CodeInternal renders a generic message.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := statusFor(code)

	message := err.Error()
	if code == dErrors.CodeInternal || code == dErrors.CodeInvariantViolation {
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: message, Code: string(code)})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidSignature, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized, dErrors.CodeNotAllowlisted:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeAlreadyClaimed, dErrors.CodeConflict, dErrors.CodeNonMintTransfer:
		return http.StatusConflict
	case dErrors.CodeUnknownCommunity:
		return http.StatusUnprocessableEntity
	case dErrors.CodePaused:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}
