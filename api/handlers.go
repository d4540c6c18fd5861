/*
handlers.go - HTTP API handlers for the circle engine

PURPOSE:
  Exposes the circle state and its derived views over REST. Handles HTTP
  request/response and JSON serialization, delegating all semantics to the
  state service and the circle package.

ENDPOINTS:
  State:
    GET  /api/state              Current document mirror
    POST /api/payments/toggle    Flip one payment flag (optimistic)
    POST /api/setup              Validate + save roster and start date
    POST /api/reset              Wipe the document back to zero state

  Derived views:
    GET  /api/cycle?as_of=...    Cycle position (configured:false when unset)
    GET  /api/calendar?days=N    Forward projection (default 90 days)
    GET  /api/history?as_of=...  Payout log, latest first

  Media:
    POST /api/avatars            Multipart image -> bounded data-URI reference

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 502: Document store unreachable (write or read failed)
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/circle-engine/avatar"
	"github.com/warp/circle-engine/circle"
	"github.com/warp/circle-engine/state"
	"github.com/warp/circle-engine/store"
)

// defaultCalendarDays covers a full five-member rotation (75 days) with a
// buffer to see the next rotation starting.
const defaultCalendarDays = 90

// maxCalendarDays bounds the projection length so a single request cannot
// allocate an arbitrarily large response. Ten years of days is far beyond
// any real circle horizon.
const maxCalendarDays = 3650

// maxAvatarUpload bounds avatar uploads to 5 MiB.
const maxAvatarUpload = 5 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *state.Service
	Avatars avatar.Encoder

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewHandler creates a handler over the state service.
func NewHandler(svc *state.Service, enc avatar.Encoder) *Handler {
	if enc == nil {
		enc = &avatar.Resizer{}
	}
	return &Handler{Service: svc, Avatars: enc, now: time.Now}
}

// =============================================================================
// STATE HANDLERS
// =============================================================================

// GetState returns the current document mirror. A lost document
// subscription blocks this view with a 502: the mirror may be stale and
// the UI must show the connection failure, matching how write failures
// surface.
// GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SubscriptionErr(); err != nil {
		writeError(w, http.StatusBadGateway, "Document subscription lost", err)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(h.Service.Snapshot()))
}

// TogglePayment flips one payment flag and persists the full document.
// POST /api/payments/toggle
func (h *Handler) TogglePayment(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, err := circle.ParseDateKey(req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if req.MemberID == "" {
		writeError(w, http.StatusBadRequest, "member_id is required", nil)
		return
	}

	next, err := h.Service.Toggle(r.Context(), req.Date, req.MemberID)
	if err != nil {
		// The optimistic state is already applied locally and is NOT
		// rolled back; report the persistence failure alongside it.
		writeError(w, statusFor(err), "Payment toggled locally but not persisted", err)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(next))
}

// SaveSetup validates and saves the roster and start date.
// POST /api/setup
func (h *Handler) SaveSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	members := make([]circle.Member, len(req.Members))
	for i, m := range req.Members {
		members[i] = circle.Member{ID: m.ID, Name: m.Name, Order: m.Order, Avatar: m.Avatar}
	}

	next, err := h.Service.SaveSetup(r.Context(), members, req.StartDate)
	if err != nil {
		var setupErr *circle.SetupError
		if errors.As(err, &setupErr) {
			writeError(w, http.StatusBadRequest, "Setup rejected", err)
			return
		}
		writeError(w, statusFor(err), "Failed to save setup", err)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(next))
}

// Reset wipes the shared document back to the zero-value state.
// POST /api/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Reset(r.Context()); err != nil {
		writeError(w, statusFor(err), "Failed to reset", err)
		return
	}
	writeJSON(w, http.StatusOK, toStateDTO(circle.NewAppState()))
}

// GetRecord returns the payment checklist for one date, substituting an
// empty all-false record when none exists yet.
// GET /api/records/{date}
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	dateKey := chi.URLParam(r, "date")
	if _, err := circle.ParseDateKey(dateKey); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	rec := h.Service.Record(dateKey)
	writeJSON(w, http.StatusOK, RecordDTO{Date: rec.Date, Payments: rec.Payments})
}

// =============================================================================
// DERIVED VIEW HANDLERS
// =============================================================================

// GetCycle returns the cycle position at as_of (default today).
// GET /api/cycle?as_of=YYYY-MM-DD
func (h *Handler) GetCycle(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOf(w, r)
	if !ok {
		return
	}

	info, configured := h.Service.CycleInfo(asOf)
	if !configured {
		// Not an error: the circle is unset or hasn't started yet.
		writeJSON(w, http.StatusOK, CycleInfoDTO{Configured: false})
		return
	}

	receiver := toMemberDTO(info.CurrentReceiver)
	writeJSON(w, http.StatusOK, CycleInfoDTO{
		Configured:      true,
		CycleNumber:     info.CycleNumber,
		DayInCycle:      info.DayInCycle,
		DaysUntilPayout: info.DaysUntilPayout,
		CurrentReceiver: &receiver,
		IsPayoutDay:     info.IsPayoutDay,
		TotalPot:        info.TotalPot.String(),
	})
}

// GetCalendar returns the forward day projection.
// GET /api/calendar?days=N
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	days := defaultCalendarDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxCalendarDays {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("days must be an integer between 0 and %d", maxCalendarDays), err)
			return
		}
		days = n
	}

	projected := h.Service.Calendar(days)
	dtos := make([]DayDTO, len(projected))
	for i, d := range projected {
		dtos[i] = DayDTO{
			Date:            circle.FormatDateKey(d.Date),
			DayGlobal:       d.DayGlobal,
			IsPayoutDay:     d.IsPayoutDay,
			CycleOwnerOrder: d.CycleOwnerOrder,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetHistory returns the payout log up to as_of (default today).
// GET /api/history?as_of=YYYY-MM-DD
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOf(w, r)
	if !ok {
		return
	}

	events := h.Service.History(asOf)
	dtos := make([]PayoutDTO, len(events))
	for i, e := range events {
		dtos[i] = PayoutDTO{
			Cycle:    e.Cycle,
			Date:     circle.FormatDateKey(e.Date),
			Receiver: toMemberDTO(e.Receiver),
			Amount:   e.Amount.String(),
		}
	}
	writeJSON(w, http.StatusOK, HistoryDTO{
		Events:         dtos,
		TotalDisbursed: circle.TotalDisbursed(events).String(),
	})
}

// =============================================================================
// AVATAR HANDLER
// =============================================================================

// UploadAvatar accepts a multipart "image" part and returns the bounded
// encoded reference. The caller stores the reference on a member via
// /api/setup; nothing is persisted here.
// POST /api/avatars
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUpload)

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	img, err := avatar.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unsupported or corrupt image", err)
		return
	}

	ref, err := h.Avatars.Encode(img)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode avatar", err)
		return
	}
	writeJSON(w, http.StatusOK, AvatarDTO{Avatar: ref})
}

// =============================================================================
// HELPERS
// =============================================================================

// asOf parses the optional as_of query parameter, defaulting to now.
func (h *Handler) asOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return h.now(), true
	}
	t, err := circle.ParseDateKey(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD", err)
		return time.Time{}, false
	}
	return t, true
}

func statusFor(err error) int {
	if errors.Is(err, store.ErrConnection) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
