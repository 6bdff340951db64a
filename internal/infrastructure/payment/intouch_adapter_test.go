package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	domain "github.com/rentfolio/backend/internal/domain/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *IntouchConfig {
	return &IntouchConfig{
		SiteID:        "SITE001",
		Secret:        "test-secret",
		StatusTimeout: 2 * time.Second,
	}
}

func completeFormBody() url.Values {
	return url.Values{
		"site_id":            {"SITE001"},
		"trans_id":           {"TX123"},
		"trans_date":         {"2026-03-15 10:30:00"},
		"amount":             {"50000"},
		"currency":           {"XOF"},
		"signature":          {"sig"},
		"payment_method":     {"WAVE"},
		"payer_phone_number": {"770000000"},
		"payer_phone_prefix": {"221"},
		"language":           {"fr"},
		"version":            {"v1"},
		"payment_config":     {"SINGLE"},
		"page_action":        {"PAYMENT"},
		"custom_field":       {"lease-42"},
		"designation":        {"Loyer mars"},
		"error_message":      {"SUCCES"},
	}
}

func TestIntouchAdapterParseNotification(t *testing.T) {
	adapter, err := NewIntouchAdapter(testConfig(), zap.NewNop())
	require.NoError(t, err)

	t.Run("parses form-encoded body", func(t *testing.T) {
		body := []byte(completeFormBody().Encode())
		n, err := adapter.ParseNotification(body, "application/x-www-form-urlencoded")
		require.NoError(t, err)
		assert.Equal(t, "TX123", n.TransactionID)
		assert.Equal(t, "50000", n.Amount)
		assert.True(t, n.IsSuccess())
		assert.Equal(t, body, n.Raw)
	})

	t.Run("parses JSON body", func(t *testing.T) {
		wire := map[string]string{}
		for k, v := range completeFormBody() {
			wire[k] = v[0]
		}
		body, err := json.Marshal(wire)
		require.NoError(t, err)

		n, err := adapter.ParseNotification(body, "application/json")
		require.NoError(t, err)
		assert.Equal(t, "TX123", n.TransactionID)
		assert.Equal(t, "XOF", n.Currency)
	})

	t.Run("rejects body with missing fields", func(t *testing.T) {
		form := completeFormBody()
		form.Del("trans_id")
		_, err := adapter.ParseNotification([]byte(form.Encode()), "application/x-www-form-urlencoded")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMalformedNotification)
		assert.Contains(t, err.Error(), "trans_id")
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := adapter.ParseNotification([]byte("{not json"), "application/json")
		assert.ErrorIs(t, err, domain.ErrMalformedNotification)
	})
}

func TestIntouchAdapterVerifySignature(t *testing.T) {
	adapter, err := NewIntouchAdapter(testConfig(), zap.NewNop())
	require.NoError(t, err)

	body := []byte(completeFormBody().Encode())
	n, err := adapter.ParseNotification(body, "application/x-www-form-urlencoded")
	require.NoError(t, err)

	t.Run("accepts a valid token", func(t *testing.T) {
		token := adapter.ComputeSignature(n)
		assert.NoError(t, adapter.VerifySignature(n, token))
	})

	t.Run("rejects a forged token", func(t *testing.T) {
		err := adapter.VerifySignature(n, "deadbeef")
		assert.ErrorIs(t, err, domain.ErrSignatureMismatch)
	})

	t.Run("field change invalidates the token", func(t *testing.T) {
		token := adapter.ComputeSignature(n)
		tampered := *n
		tampered.Amount = "999999"
		err := adapter.VerifySignature(&tampered, token)
		assert.ErrorIs(t, err, domain.ErrSignatureMismatch)
	})

	t.Run("missing token is tolerated and logged", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		logging, err := NewIntouchAdapter(testConfig(), zap.New(core))
		require.NoError(t, err)

		assert.NoError(t, logging.VerifySignature(n, ""))

		entries := logs.FilterMessageSnippet("without x-token").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "TX123", entries[0].ContextMap()["trans_id"])
	})

	t.Run("empty secret accepts a token but logs it", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		cfg := testConfig()
		cfg.Secret = ""
		unsecured, err := NewIntouchAdapter(cfg, zap.New(core))
		require.NoError(t, err)

		assert.NoError(t, unsecured.VerifySignature(n, "deadbeef"))
		assert.Len(t, logs.FilterMessageSnippet("token left unverified").All(), 1)
	})
}

func TestIntouchAdapterQueryStatus(t *testing.T) {
	newAdapter := func(t *testing.T, statusURL string) *IntouchAdapter {
		cfg := testConfig()
		cfg.StatusURL = statusURL
		adapter, err := NewIntouchAdapter(cfg, zap.NewNop())
		require.NoError(t, err)
		return adapter
	}

	t.Run("confirmed success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req intouchStatusRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "SITE001", req.SiteID)
			assert.Equal(t, "TX123", req.TransactionID)
			json.NewEncoder(w).Encode(intouchStatusResponse{Status: "SUCCESSFUL", TransID: "TX123"})
		}))
		defer server.Close()

		result := newAdapter(t, server.URL).QueryStatus(context.Background(), "TX123")
		assert.True(t, result.Confirmed)
		assert.True(t, result.Success)
	})

	t.Run("confirmed failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(intouchStatusResponse{Status: "FAILED"})
		}))
		defer server.Close()

		result := newAdapter(t, server.URL).QueryStatus(context.Background(), "TX123")
		assert.True(t, result.Confirmed)
		assert.False(t, result.Success)
	})

	t.Run("pending status is unconfirmed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(intouchStatusResponse{Status: "PENDING"})
		}))
		defer server.Close()

		result := newAdapter(t, server.URL).QueryStatus(context.Background(), "TX123")
		assert.False(t, result.Confirmed)
	})

	t.Run("slow provider is unconfirmed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		cfg := testConfig()
		cfg.StatusURL = server.URL
		cfg.StatusTimeout = 50 * time.Millisecond
		adapter, err := NewIntouchAdapter(cfg, zap.NewNop())
		require.NoError(t, err)

		result := adapter.QueryStatus(context.Background(), "TX123")
		assert.False(t, result.Confirmed)
	})

	t.Run("no status URL disables the re-query", func(t *testing.T) {
		result := newAdapter(t, "").QueryStatus(context.Background(), "TX123")
		assert.False(t, result.Confirmed)
	})
}
