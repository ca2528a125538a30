package lunarwatch

import "time"

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Endpoints []string  `json:"endpoints"`
}

// UpstreamCall is one journal row. It never holds the api key or a NASA payload.
type UpstreamCall struct {
	Route        string    `json:"route" db:"route"`
	UpstreamPath string    `json:"upstream_path" db:"upstream_path"`
	Status       int       `json:"status" db:"status"`
	DurationMs   int64     `json:"duration_ms" db:"duration_ms"`
	Failed       bool      `json:"failed" db:"failed"`
	CalledAt     time.Time `json:"called_at" db:"called_at"`
}
