package coachapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pwalczak/stride"
	"github.com/pwalczak/stride/coachapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Stream_SendsRequest(t *testing.T) {
	t.Parallel()

	var (
		gotMethod string
		gotPath   string
		gotHeader http.Header
		gotBody   stride.Request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)

	client := coachapi.New("tok_123", coachapi.WithBaseURL(srv.URL))
	req := stride.Request{
		Note:    "Slept 6h, tired.",
		Metrics: &stride.Metrics{SleepHours: 6},
	}
	s, err := client.Stream(context.Background(), adaptPath, req)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	collectFrames(t, s)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, adaptPath, gotPath)
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "text/event-stream", gotHeader.Get("Accept"))
	assert.Equal(t, "Bearer tok_123", gotHeader.Get("Authorization"))
	assert.Equal(t, "Slept 6h, tired.", gotBody.Note)
	require.NotNil(t, gotBody.Metrics)
	assert.Equal(t, 6.0, gotBody.Metrics.SleepHours)
}

func TestClient_Stream_NoAuthHeaderWithoutToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)

	client := coachapi.New("", coachapi.WithBaseURL(srv.URL))
	s, err := client.Stream(context.Background(), adaptPath, testRequest())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	collectFrames(t, s)

	assert.Empty(t, gotAuth)
}

func TestClient_Stream_InvalidRequest(t *testing.T) {
	t.Parallel()
	client := coachapi.New("")
	_, err := client.Stream(context.Background(), adaptPath, stride.Request{})
	assert.ErrorIs(t, err, stride.ErrValidation)
}

func TestClient_Stream_HTTPError(t *testing.T) {
	t.Parallel()

	t.Run("json error envelope", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"type":"rate_limited","message":"Too many requests"}}`)
		}))
		t.Cleanup(srv.Close)

		client := coachapi.New("", coachapi.WithBaseURL(srv.URL))
		_, err := client.Stream(context.Background(), adaptPath, testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate_limited")
		assert.Contains(t, err.Error(), "Too many requests")
	})

	t.Run("plain text body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		client := coachapi.New("", coachapi.WithBaseURL(srv.URL))
		_, err := client.Stream(context.Background(), adaptPath, testRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream exploded")
	})
}

func TestClient_AcceptPlan(t *testing.T) {
	t.Parallel()

	t.Run("sends thread id", func(t *testing.T) {
		t.Parallel()
		var gotPath string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)

		client := coachapi.New("tok_123", coachapi.WithBaseURL(srv.URL))
		require.NoError(t, client.AcceptPlan(context.Background(), 42))

		assert.Equal(t, "/v1/plans/accept", gotPath)
		assert.Equal(t, float64(42), gotBody["thread_id"])
	})

	t.Run("surfaces http error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"type":"not_found","message":"unknown thread"}}`)
		}))
		t.Cleanup(srv.Close)

		client := coachapi.New("", coachapi.WithBaseURL(srv.URL))
		err := client.AcceptPlan(context.Background(), 999)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown thread")
	})
}
