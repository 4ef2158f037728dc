package models

// RamalBucket accumulates per-origin totals.
type RamalBucket struct {
	Ramal       string  `json:"ramal"`
	Operator    string  `json:"operador"`
	Count       int     `json:"total"`
	DurationSec int     `json:"duracao_segundos"`
	Value       float64 `json:"valor"`
}

// TypeBucket accumulates per-call-type totals.
type TypeBucket struct {
	Count       int     `json:"total"`
	DurationSec int     `json:"duracao_segundos"`
	Value       float64 `json:"valor"`
}

// Summary holds the aggregate view of a record set. It is derived on
// every request and never cached independently of the records.
type Summary struct {
	Total         int                      `json:"total"`
	Answered      int                      `json:"atendidas"`
	NotAnswered   int                      `json:"nao_atendidas"`
	TotalDuration int                      `json:"duracao_total"`
	TotalValue    float64                  `json:"valor_total"`
	ByRamal       map[string]*RamalBucket  `json:"por_ramal"`
	ByType        map[CallType]*TypeBucket `json:"por_tipo"`
	ByHour        map[int]int              `json:"por_hora"`
}

// SummaryResult is the payload returned by the summary operation.
type SummaryResult struct {
	Period  Period   `json:"periodo"`
	Summary *Summary `json:"resumo"`
	Error   string   `json:"error,omitempty"`
}

// Status reports the scraper's configuration and session state.
// Producing it has no side effects.
type Status struct {
	Configured    bool    `json:"configured"`
	URL           string  `json:"url"`
	Username      string  `json:"username"`
	Authenticated bool    `json:"authenticated"`
	LastAuthTime  *string `json:"last_auth_time"`
	CacheActive   bool    `json:"cache_active"`
	CachedRecords int     `json:"cached_record_count"`
}
