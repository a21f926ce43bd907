package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vedantpareek96/il-management/internal/application/command"
	"github.com/vedantpareek96/il-management/internal/application/query"
	"github.com/vedantpareek96/il-management/internal/domain/person"
	"github.com/vedantpareek96/il-management/internal/domain/shared"
	"github.com/vedantpareek96/il-management/pkg/logger"
	"github.com/vedantpareek96/il-management/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// statusFor maps a reason code to an HTTP status.
func statusFor(code shared.ReasonCode) int {
	switch code {
	case shared.ReasonNotFound:
		return http.StatusNotFound
	case shared.ReasonInvalidArgument, shared.ReasonInvalidRange:
		return http.StatusBadRequest
	case shared.ReasonConflict, shared.ReasonConflictingCriteria:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError turns a domain error into a reason code plus message.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := shared.Reason(err)
	status := statusFor(code)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Never leak storage details.
		msg = "an unexpected error occurred"
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
	}

	writeJSONError(w, status, string(code), msg)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARAMETER PARSING
// ══════════════════════════════════════════════════════════════════════════════

func parseDateParam(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := timeutil.ParseDate(raw)
	if err != nil {
		return nil, shared.NewDomainError("http", "parseDateParam", shared.ErrInvalidArgument,
			key+" must be a YYYY-MM-DD date")
	}
	return &t, nil
}

func parseIntParam(r *http.Request, key string) (int, bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, shared.NewDomainError("http", "parseIntParam", shared.ErrInvalidArgument,
			key+" must be an integer")
	}
	return n, true, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}

	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(r.Context()); err != nil {
			s.logger.Error("health check failed", logger.Err(err))
			writeJSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}
	}

	writeJSON(w, r, http.StatusOK, health{
		Status: "ok",
		Uptime: s.Uptime().Round(time.Second).String(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// READ ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStats serves GET /api/v1/people/{id}/stats.
// Query params: from, to (YYYY-MM-DD), recent_limit.
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, string(shared.ReasonInvalidArgument), "id must be a UUID")
		return
	}

	q := query.ComputeStatsQuery{PersonID: id}
	if q.From, err = parseDateParam(r, "from"); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if q.To, err = parseDateParam(r, "to"); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if n, ok, err := parseIntParam(r, "recent_limit"); err != nil {
		s.writeDomainError(w, r, err)
		return
	} else if ok {
		q.RecentLimit = n
	}

	result, err := s.deps.ComputeStats.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// handleGetLeaderboard serves GET /api/v1/leaderboard.
// Query params: metric (required), region, from, to, limit.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	metric, err := query.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	q := query.ComputeLeaderboardQuery{
		Metric: metric,
		Region: r.URL.Query().Get("region"),
	}
	if q.From, err = parseDateParam(r, "from"); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if q.To, err = parseDateParam(r, "to"); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if n, ok, err := parseIntParam(r, "limit"); err != nil {
		s.writeDomainError(w, r, err)
		return
	} else if ok {
		q.SetLimit(n)
	}

	result, err := s.deps.ComputeLeaderboard.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// handleFilterPeople serves GET /api/v1/people/filter.
// Query params: filter (required), region, months, limit.
func (s *Server) handleFilterPeople(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	q := query.FilterPeopleQuery{
		Filter: filter,
		Region: r.URL.Query().Get("region"),
	}
	if n, ok, err := parseIntParam(r, "months"); err != nil {
		s.writeDomainError(w, r, err)
		return
	} else if ok {
		q.Months = n
	}
	if n, ok, err := parseIntParam(r, "limit"); err != nil {
		s.writeDomainError(w, r, err)
		return
	} else if ok {
		q.Limit = n
	}

	result, err := s.deps.FilterPeople.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// handleListLeaders serves GET /api/v1/people/leaders.
func (s *Server) handleListLeaders(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListLeaders.Handle(r.Context(), query.ListLeadersQuery{
		Region: r.URL.Query().Get("region"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// handleListCriteria serves GET /api/v1/criteria.
func (s *Server) handleListCriteria(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListCriteria.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

// createCriteriaRequest is the POST /api/v1/criteria body.
type createCriteriaRequest struct {
	ActorID             string   `json:"actor_id"`
	Region              *string  `json:"region"`
	Role                *string  `json:"role"`
	TargetGuests        *int     `json:"target_guests"`
	TargetRegistrations *int     `json:"target_registrations"`
	TargetEffectiveness *float64 `json:"target_effectiveness"`
}

// handleCreateCriteria serves POST /api/v1/criteria.
func (s *Server) handleCreateCriteria(w http.ResponseWriter, r *http.Request) {
	var req createCriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, string(shared.ReasonInvalidArgument), "malformed JSON body")
		return
	}

	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, string(shared.ReasonInvalidArgument), "actor_id must be a UUID")
		return
	}

	cmd := command.CreateCriteriaCommand{
		ActorID:             actorID,
		Region:              req.Region,
		TargetGuests:        req.TargetGuests,
		TargetRegistrations: req.TargetRegistrations,
		TargetEffectiveness: req.TargetEffectiveness,
	}
	if req.Role != nil {
		role, err := person.ParseRole(*req.Role)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		cmd.Role = &role
	}

	result, err := s.deps.CreateCriteria.Handle(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			writeJSONError(w, http.StatusConflict, string(shared.ReasonConflict),
				"criteria with this scope already exists")
			return
		}
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, result)
}
