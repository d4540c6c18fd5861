/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model from
  the external contract. Dates travel as YYYY-MM-DD strings and money as
  decimal strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Handlers validate; DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/circle-engine/circle"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// MemberDTO represents one circle member.
type MemberDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Order  int    `json:"order"`
	Avatar string `json:"avatar,omitempty"`
}

// RecordDTO represents the payment flags for one date.
type RecordDTO struct {
	Date     string          `json:"date"`
	Payments map[string]bool `json:"payments"`
}

// StateDTO mirrors the persisted document.
type StateDTO struct {
	Members   []MemberDTO          `json:"members"`
	StartDate string               `json:"start_date"`
	Records   map[string]RecordDTO `json:"records"`
}

// CycleInfoDTO describes the circle position at a date. Configured=false
// means the circle is not set up or has not started; the other fields are
// then omitted.
type CycleInfoDTO struct {
	Configured      bool       `json:"configured"`
	CycleNumber     int        `json:"cycle_number,omitempty"`
	DayInCycle      int        `json:"day_in_cycle,omitempty"`
	DaysUntilPayout int        `json:"days_until_payout"`
	CurrentReceiver *MemberDTO `json:"current_receiver,omitempty"`
	IsPayoutDay     bool       `json:"is_payout_day"`
	TotalPot        string     `json:"total_pot,omitempty"`
}

// DayDTO is one projected calendar day.
type DayDTO struct {
	Date            string `json:"date"`
	DayGlobal       int    `json:"day_global"`
	IsPayoutDay     bool   `json:"is_payout_day"`
	CycleOwnerOrder int    `json:"cycle_owner_order"`
}

// PayoutDTO is one reconstructed payout event.
type PayoutDTO struct {
	Cycle    int       `json:"cycle"`
	Date     string    `json:"date"`
	Receiver MemberDTO `json:"receiver"`
	Amount   string    `json:"amount"`
}

// HistoryDTO wraps the payout log with its running total.
type HistoryDTO struct {
	Events         []PayoutDTO `json:"events"`
	TotalDisbursed string      `json:"total_disbursed"`
}

// ToggleRequest flips one payment flag.
type ToggleRequest struct {
	Date     string `json:"date"`
	MemberID string `json:"member_id"`
}

// SetupRequest saves the roster and start date.
type SetupRequest struct {
	Members   []MemberDTO `json:"members"`
	StartDate string      `json:"start_date"`
}

// AvatarDTO returns the encoded image reference for an upload.
type AvatarDTO struct {
	Avatar string `json:"avatar"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toMemberDTO(m circle.Member) MemberDTO {
	return MemberDTO{ID: m.ID, Name: m.Name, Order: m.Order, Avatar: m.Avatar}
}

func toStateDTO(s circle.AppState) StateDTO {
	dto := StateDTO{
		Members:   make([]MemberDTO, len(s.Members)),
		StartDate: s.StartDate,
		Records:   make(map[string]RecordDTO, len(s.Records)),
	}
	for i, m := range s.Members {
		dto.Members[i] = toMemberDTO(m)
	}
	for key, rec := range s.Records {
		dto.Records[key] = RecordDTO{Date: rec.Date, Payments: rec.Payments}
	}
	return dto
}
