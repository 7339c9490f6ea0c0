package domain

import "time"

// Tender is the bid/procurement case this subsystem plans against.
// The date fields carry the wire format of the backing service ("2006-01-02"
// strings, empty when unset); parsing happens where the dates are consumed
// so that a single malformed field never poisons the whole record.
type Tender struct {
	ID       string `json:"id"`
	BureauID string `json:"bureau_id"`
	Name     string `json:"name"`
	Client   string `json:"opdrachtgever"`
	Status   string `json:"status"`

	PublicatieDatum      string `json:"publicatie_datum"`
	SchouwDatum          string `json:"schouw_datum"`
	NotaVanInlichtingen1 string `json:"nota_van_inlichtingen_1"`
	NotaVanInlichtingen2 string `json:"nota_van_inlichtingen_2"`
	DeadlineIndiening    string `json:"deadline_indiening"`
	VoorlopigeGunning    string `json:"voorlopige_gunning"`
	DefinitieveGunning   string `json:"definitieve_gunning"`
	ContractStart        string `json:"contract_start"`
	ContractEinde        string `json:"contract_einde"`
}

// DateLayout is the calendar-date wire format of the backing service.
const DateLayout = "2006-01-02"

// ParseDate parses a wire-format calendar date. Returns nil for empty or
// malformed values; callers treat those as "unset".
func ParseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// Some older records carry full timestamps.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}
	}
	return &t
}

// FormatDate renders a date in the wire format. Nil renders as "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
