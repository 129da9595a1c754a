package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/domain"
	"loan-advisor/loanerrors"
)

func predictionInput() domain.PredictionInput {
	return domain.PredictionInput{Age: 31, Income: 12, CreditScore: 720, MaritalStatus: "Single", Purpose: "Home"}
}

func newTestPredictionClient(url string) *PredictionClient {
	return NewPredictionClient(PredictionOptions{
		URL:          url,
		RetryMax:     1,
		Timeout:      time.Second,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})
}

func TestPredict_Success(t *testing.T) {
	var got domain.PredictionInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"predictedLoanAmount": 18.75}`))
	}))
	defer server.Close()

	result, err := newTestPredictionClient(server.URL + "/predict").Predict(context.Background(), predictionInput())

	require.NoError(t, err)
	assert.Equal(t, 18.75, result.PredictedLoanAmount)
	assert.Equal(t, predictionInput(), got)
}

func TestPredict_RetriesThenReportsUpstreamStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestPredictionClient(server.URL).Predict(context.Background(), predictionInput())

	var upstream *loanerrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPredict_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := newTestPredictionClient(server.URL).Predict(context.Background(), predictionInput())

	assert.ErrorIs(t, err, loanerrors.ErrUpstream)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPredict_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer server.Close()

	_, err := newTestPredictionClient(server.URL).Predict(context.Background(), predictionInput())

	assert.ErrorIs(t, err, loanerrors.ErrUpstream)
}

func TestPredict_MissingAmountIsUpstreamError(t *testing.T) {
	for _, body := range []string{`{}`, `{"predictedLoanAmount": null}`} {
		t.Run(body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			_, err := newTestPredictionClient(server.URL).Predict(context.Background(), predictionInput())

			var upstream *loanerrors.UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, http.StatusOK, upstream.StatusCode)
		})
	}
}

func TestPredict_ZeroAmountIsAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"predictedLoanAmount": 0}`))
	}))
	defer server.Close()

	got, err := newTestPredictionClient(server.URL).Predict(context.Background(), predictionInput())

	require.NoError(t, err)
	assert.Zero(t, got.PredictedLoanAmount)
}

func TestPredict_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestPredictionClient(url).Predict(context.Background(), predictionInput())

	assert.ErrorIs(t, err, loanerrors.ErrUpstream)
}

func TestPredict_Unconfigured(t *testing.T) {
	_, err := newTestPredictionClient("").Predict(context.Background(), predictionInput())

	assert.ErrorIs(t, err, ErrPredictionUnconfigured)
}

func TestPredict_Validation(t *testing.T) {
	in := predictionInput()
	in.Purpose = ""

	_, err := newTestPredictionClient("http://unused").Predict(context.Background(), in)

	assert.ErrorIs(t, err, loanerrors.ErrValidation)
}
