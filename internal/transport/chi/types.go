package chi

import (
	"time"

	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
	"github.com/kailas-cloud/fieldmatch/internal/domain/match"
	domusage "github.com/kailas-cloud/fieldmatch/internal/domain/usage"
)

// ErrorCode is the machine-readable error code in ErrorResponse.
type ErrorCode string

const (
	ErrorCodeBadRequest              ErrorCode = "bad_request"
	ErrorCodeUnauthorized            ErrorCode = "unauthorized"
	ErrorCodeValidationFailed        ErrorCode = "validation_failed"
	ErrorCodeEmptyCandidateSet       ErrorCode = "empty_candidate_set"
	ErrorCodeEmbeddingQuotaExceeded  ErrorCode = "embedding_quota_exceeded"
	ErrorCodeEmbeddingProviderError  ErrorCode = "embedding_provider_error"
	ErrorCodeTargetFieldsUnavailable ErrorCode = "target_fields_unavailable"
	ErrorCodeRequestTooLarge         ErrorCode = "request_too_large"
	ErrorCodeInternalError           ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FieldDTO uses the same keys as target-field files.
type FieldDTO struct {
	Handle      string  `json:"fieldHandle"`
	Label       string  `json:"fieldLabel"`
	Type        string  `json:"fieldType"`
	Description *string `json:"fieldDescription,omitempty"`
}

// MatchRequest is the body of POST /v1/match.
// When Targets is omitted the server's configured target-field file is used.
type MatchRequest struct {
	Field   FieldDTO    `json:"field"`
	Targets *[]FieldDTO `json:"targets,omitempty"`
	TopK    *int        `json:"top_k,omitempty"`
}

// MatchResultDTO is one ranked candidate.
type MatchResultDTO struct {
	Field FieldDTO `json:"field"`
	Score float64  `json:"score"`
}

// MatchResponse is the body of a successful POST /v1/match.
type MatchResponse struct {
	Results []MatchResultDTO `json:"results"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// BudgetDTO is the token budget status. Omitted when the period is unlimited.
type BudgetDTO struct {
	TokensLimit     int64     `json:"tokens_limit"`
	TokensRemaining int64     `json:"tokens_remaining"`
	Exhausted       bool      `json:"exhausted"`
	ResetsAt        time.Time `json:"resets_at"`
}

// UsageResponse is the body of GET /v1/usage.
type UsageResponse struct {
	Period      string     `json:"period"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	TokensUsed  int64      `json:"tokens_used"`
	Budget      *BudgetDTO `json:"budget,omitempty"`
}

func (d FieldDTO) toDomain() (field.Field, error) {
	var desc string
	if d.Description != nil {
		desc = *d.Description
	}
	return field.New(d.Handle, d.Label, d.Type, desc) //nolint:wrapcheck // ValidationError is surfaced as-is
}

func fieldToDTO(f field.Field) FieldDTO {
	dto := FieldDTO{Handle: f.Handle(), Label: f.Label(), Type: f.Type()}
	if d, ok := f.Description(); ok {
		dto.Description = &d
	}
	return dto
}

func resultsToDTO(results []match.Result) MatchResponse {
	out := make([]MatchResultDTO, len(results))
	for i, r := range results {
		out[i] = MatchResultDTO{Field: fieldToDTO(r.Field()), Score: r.Score()}
	}
	return MatchResponse{Results: out}
}

func usageToDTO(r *domusage.Report) UsageResponse {
	resp := UsageResponse{
		Period:      string(r.Period()),
		PeriodStart: time.UnixMilli(r.PeriodStart()).UTC(),
		PeriodEnd:   time.UnixMilli(r.PeriodEnd()).UTC(),
		TokensUsed:  r.TokensUsed(),
	}
	if b := r.Budget(); !b.Unlimited() {
		resp.Budget = &BudgetDTO{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			Exhausted:       b.IsExhausted(),
			ResetsAt:        time.UnixMilli(b.ResetsAt()).UTC(),
		}
	}
	return resp
}
