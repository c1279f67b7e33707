package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldmatch/internal/domain"
	"github.com/kailas-cloud/fieldmatch/internal/domain/field"
	"github.com/kailas-cloud/fieldmatch/internal/domain/match"
	domusage "github.com/kailas-cloud/fieldmatch/internal/domain/usage"
	logpkg "github.com/kailas-cloud/fieldmatch/internal/logger"
	"github.com/kailas-cloud/fieldmatch/internal/metrics"
	healthuc "github.com/kailas-cloud/fieldmatch/internal/usecase/health"
	usageuc "github.com/kailas-cloud/fieldmatch/internal/usecase/usage"
	"github.com/kailas-cloud/fieldmatch/internal/version"
)

// DefaultMaxBodyBytes caps the POST /v1/match request body.
const DefaultMaxBodyBytes = 1 << 20

// Matcher ranks candidate fields against a query field.
type Matcher interface {
	Match(ctx context.Context, query field.Field, candidates []field.Field, topK int) ([]match.Result, error)
}

// TargetSource supplies the default candidate set when a request has none.
type TargetSource interface {
	List(ctx context.Context) ([]field.Field, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the matching HTTP API.
type Server struct {
	matcher       Matcher
	targets       TargetSource
	health        *healthuc.Service
	usage         *usageuc.Service
	defaultTopK   int
	maxBodyBytes  int64
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. targets may be nil, in which case every
// request must carry its own targets.
func NewServer(
	matcher Matcher,
	targets TargetSource,
	health *healthuc.Service,
	defaultTopK int,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		matcher:      matcher,
		targets:      targets,
		health:       health,
		usage:        usageuc.New(nil),
		defaultTopK:  defaultTopK,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrEmptyCandidateSet, http.StatusBadRequest, ErrorCodeEmptyCandidateSet),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded,
			http.StatusPaymentRequired, ErrorCodeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrLoad, http.StatusInternalServerError, ErrorCodeTargetFieldsUnavailable),
	}
	return s
}

// WithUsage sets the token usage reporter. Without it GET /v1/usage reports an unlimited budget.
func (s *Server) WithUsage(u *usageuc.Service) *Server {
	if u != nil {
		s.usage = u
	}
	return s
}

// Match handles POST /v1/match.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req MatchRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeRequestTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	query, err := req.Field.toDomain()
	if err != nil {
		s.handleDomainError(r.Context(), w, fmt.Errorf("field: %w", err))
		return
	}

	candidates, err := s.candidates(r.Context(), req.Targets)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results, err := s.matcher.Match(ctx, query, candidates, topK)

	var topScore float64
	if len(results) > 0 {
		topScore = results[0].Score()
	}
	metrics.ObserveMatch("http", len(candidates), time.Since(start).Seconds(), topScore, err)

	setEmbeddingHeaders(w, usage)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultsToDTO(results))
}

func (s *Server) candidates(ctx context.Context, dtos *[]FieldDTO) ([]field.Field, error) {
	if dtos == nil {
		if s.targets == nil {
			return nil, fmt.Errorf("no default target fields configured: %w", domain.ErrEmptyCandidateSet)
		}
		fields, err := s.targets.List(ctx)
		if err != nil {
			// A bad record in the server's own file is not the client's validation failure.
			return nil, fmt.Errorf("default target fields: %v: %w", err, domain.ErrLoad) //nolint:errorlint // cause chain cut on purpose
		}
		return fields, nil
	}

	fields := make([]field.Field, len(*dtos))
	for i, dto := range *dtos {
		f, err := dto.toDomain()
		if err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		fields[i] = f
	}
	return fields, nil
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// GetUsage handles GET /v1/usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToDTO(&report))
}

// Version handles GET /version.
func (s *Server) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Calls > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// validationHandler reports the failing attribute; the message carries no internals.
func validationHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The client sees the sentinel's message, not the wrapped chain.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logpkg.FromContextOr(ctx, s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("Request failed", zap.Error(err))
			return
		}
	}
	log.Error("Internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
