package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/account-rotator/internal/rotator"
)

// StatusHandler exposes the rotator's view of the pool for operators. It
// consumes only the rotator's public surface; it takes no part in selection.
type StatusHandler struct {
	logger  *slog.Logger
	rotator *rotator.Rotator
}

type accountStatus struct {
	ID             int   `json:"id"`
	Healthy        bool  `json:"healthy"`
	FailureCount   int   `json:"failure_count"`
	CooldownEndsAt int64 `json:"cooldown_ends_at,omitempty"`
}

type statusResponse struct {
	Count    int             `json:"count"`
	Accounts []accountStatus `json:"accounts"`
}

// Status reports pool size and per-account health. Health checks go through
// the rotator, so a cooldown recorded by another instance shows up here too.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := statusResponse{
		Count:    h.rotator.AccountCount(),
		Accounts: make([]accountStatus, 0, h.rotator.AccountCount()),
	}

	for _, acct := range h.rotator.Accounts() {
		status := accountStatus{
			ID:      acct.ID(),
			Healthy: h.rotator.IsAccountHealthy(ctx, acct.ID()),
		}

		if rec, ok := h.rotator.Tracker().Snapshot(acct.ID()); ok {
			status.FailureCount = rec.FailureCount
			if rec.IsRateLimited {
				status.CooldownEndsAt = rec.CooldownEndsAt
			}
		}

		resp.Accounts = append(resp.Accounts, status)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode status response",
			slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Healthz is a liveness probe for the rotator process itself.
func (h *StatusHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func NewStatusHandler(logger *slog.Logger, rot *rotator.Rotator) *StatusHandler {
	return &StatusHandler{
		logger:  logger,
		rotator: rot,
	}
}
