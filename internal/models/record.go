package models

import "time"

// CallType classifies the destination of an outbound call.
type CallType string

const (
	CallTypeMobile   CallType = "movel"
	CallTypeFixed    CallType = "fixo"
	CallTypeInternal CallType = "interno"
	CallTypeOther    CallType = "outro"
)

// CallRecord is one row of the portal's calls report, normalized.
// Records are built once by the normalizer and never mutated.
type CallRecord struct {
	Timestamp    time.Time `json:"data"`
	Ramal        string    `json:"ramal"`
	Operator     string    `json:"operador"`
	Destination  string    `json:"destino"`
	Locality     string    `json:"localidade"`
	DurationText string    `json:"duracao"`
	DurationSec  int       `json:"duracao_segundos"`
	Value        float64   `json:"valor"`
	Direction    string    `json:"direcao"`
	Type         CallType  `json:"tipo"`
	Answered     bool      `json:"atendida"`
}

// Hour returns the hour-of-day bucket for load histograms.
func (r *CallRecord) Hour() int {
	return r.Timestamp.Hour()
}

// Period echoes the normalized date range of a query back to the caller.
type Period struct {
	Start string `json:"inicio"`
	End   string `json:"fim"`
}

// Origin is one known ramal with its resolved display name.
type Origin struct {
	Ramal string `json:"ramal"`
	Name  string `json:"nome"`
}

// RecordsResult is the payload returned by the records operation.
// Error is set (and Records empty) when the portal was unreachable.
type RecordsResult struct {
	Period  Period       `json:"periodo"`
	Records []CallRecord `json:"chamadas"`
	Total   int          `json:"total"`
	Error   string       `json:"error,omitempty"`
}
