package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"loan-advisor/domain"
	"loan-advisor/loanerrors"
)

const predictionService = "prediction"

// ErrPredictionUnconfigured is returned when no prediction endpoint is set.
var ErrPredictionUnconfigured = errors.New("prediction endpoint is not configured")

// PredictionOptions configures the PredictionClient.
type PredictionOptions struct {
	// URL is the full endpoint, e.g. "https://host/predict".
	URL string
	// RetryMax is the maximum number of retries (default: 2)
	RetryMax int
	// Timeout is the per-attempt timeout (default: 10 seconds)
	Timeout      time.Duration
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *slog.Logger
}

// PredictionClient calls the remote loan-amount model.
type PredictionClient struct {
	url        string
	httpClient *retryablehttp.Client
	logger     *slog.Logger
}

func NewPredictionClient(opts PredictionOptions) *PredictionClient {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryMax == 0 {
		opts.RetryMax = 2
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.HTTPClient.Timeout = opts.Timeout
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}
	retryClient.Logger = opts.Logger
	// Hand the last response back so its status reaches the caller.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &PredictionClient{
		url:        strings.TrimSpace(opts.URL),
		httpClient: retryClient,
		logger:     opts.Logger,
	}
}

// Predict asks the remote model for the loan amount the applicant is likely
// to be granted. Transport failures and non-2xx answers are returned as
// *loanerrors.UpstreamError.
func (c *PredictionClient) Predict(ctx context.Context, input domain.PredictionInput) (domain.PredictionResult, error) {
	if err := validatePrediction(input); err != nil {
		return domain.PredictionResult{}, err
	}
	if c.url == "" {
		return domain.PredictionResult{}, ErrPredictionUnconfigured
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("failed to marshal prediction input: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
			_ = resp.Body.Close()
		}
		return domain.PredictionResult{}, loanerrors.NewUpstreamError(predictionService, status, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("Failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.PredictionResult{}, loanerrors.NewUpstreamError(predictionService, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.PredictionResult{}, loanerrors.NewUpstreamError(
			predictionService, resp.StatusCode, fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))))
	}

	var decoded struct {
		PredictedLoanAmount *float64 `json:"predictedLoanAmount"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.PredictionResult{}, loanerrors.NewUpstreamError(predictionService, resp.StatusCode, fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if decoded.PredictedLoanAmount == nil {
		return domain.PredictionResult{}, loanerrors.NewUpstreamError(predictionService, resp.StatusCode, errors.New("response has no predictedLoanAmount"))
	}
	return domain.PredictionResult{PredictedLoanAmount: *decoded.PredictedLoanAmount}, nil
}

func validatePrediction(in domain.PredictionInput) error {
	switch {
	case in.Age < MinApplicantAge || in.Age > MaxApplicantAge:
		return loanerrors.NewValidationError("age", fmt.Sprintf("age must be between %d and %d", MinApplicantAge, MaxApplicantAge))
	case !nonNegative(in.Income):
		return loanerrors.NewValidationError("income", "income must be zero or positive")
	case in.CreditScore < MinCreditScore || in.CreditScore > MaxCreditScore:
		return loanerrors.NewValidationError("creditScore", fmt.Sprintf("creditScore must be between %d and %d", MinCreditScore, MaxCreditScore))
	case strings.TrimSpace(in.MaritalStatus) == "":
		return loanerrors.NewValidationError("maritalStatus", "maritalStatus is required")
	case strings.TrimSpace(in.Purpose) == "":
		return loanerrors.NewValidationError("purpose", "purpose is required")
	}
	return nil
}
