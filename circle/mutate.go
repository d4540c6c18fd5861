package circle

// =============================================================================
// PAYMENT RECORD MUTATOR - Toggle one payment flag
// =============================================================================

// TogglePayment returns a new AppState with the payment flag for
// (dateKey, memberID) flipped. An absent record is treated as all-false,
// so the first toggle for a date lazily creates its record. Only
// Records[dateKey] changes; members, startDate, and every other record
// carry through untouched. The input state is never mutated.
//
// Toggling twice with the same arguments returns a state equal to the
// original (the created record keeps an explicit false flag, which is
// semantically identical to no record at all).
func TogglePayment(state AppState, dateKey, memberID string) AppState {
	record, ok := state.Records[dateKey]
	if !ok {
		record = DailyRecord{Date: dateKey, Payments: map[string]bool{}}
	}

	next := record.clone()
	next.Payments[memberID] = !next.Payments[memberID]

	out := state.Clone()
	out.Records[dateKey] = next
	return out
}
