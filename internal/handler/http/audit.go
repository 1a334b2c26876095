package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/internal/utils"
)

// auditTrail serves filtered audit-trail queries. The route is gated on
// PermissionAuditRead by the permission middleware.
//
// Supported query parameters: actor, action, resource_type, since, until
// (RFC 3339 timestamps) and limit. Absent parameters leave the corresponding
// filter field zero, which the store treats as "no restriction".
func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		log.Err(err).Msg("invalid audit filter")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.services.AuditService.Find(ctx, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, entries, http.StatusOK)
}

func auditFilterFromQuery(r *http.Request) (store.AuditFilter, error) {
	query := r.URL.Query()

	filter := store.AuditFilter{
		Actor:        query.Get("actor"),
		Action:       query.Get("action"),
		ResourceType: query.Get("resource_type"),
	}

	if since := query.Get("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return store.AuditFilter{}, err
		}
		filter.Since = parsed
	}

	if until := query.Get("until"); until != "" {
		parsed, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return store.AuditFilter{}, err
		}
		filter.Until = parsed
	}

	if limit := query.Get("limit"); limit != "" {
		parsed, err := strconv.ParseUint(limit, 10, 64)
		if err != nil {
			return store.AuditFilter{}, err
		}
		filter.Limit = parsed
	}

	return filter, nil
}
