package ml

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaideep-27/insightwiz/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestProcessDataProxiesBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/process-data", r.URL.Path)

		var req ProcessDataRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "metrics.csv", req.Filename)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"processed_data":  map[string]interface{}{"rows": 42},
			"insights":        map[string]interface{}{"data_quality": 0.97},
			"processing_time": 1.2,
			"status":          "processed",
		})
	}))
	defer server.Close()

	client := NewClient(config.MLConfig{BaseURL: server.URL}, silentLogger())

	result, err := client.ProcessData(context.Background(), ProcessDataRequest{
		Filename: "metrics.csv",
		MimeType: "text/csv",
		DataType: "business",
	})
	require.NoError(t, err)

	assert.False(t, result.Fallback)
	assert.Equal(t, "processed", result.Status)
	assert.InDelta(t, 1.2, result.ProcessingTime, 0.001)
	assert.Equal(t, 0.97, result.Insights["data_quality"])
}

func TestProcessDataOfflineFallback(t *testing.T) {
	// Point at a port nothing listens on.
	client := NewClient(config.MLConfig{BaseURL: "http://127.0.0.1:1"}, silentLogger())

	result, err := client.ProcessData(context.Background(), ProcessDataRequest{
		Filename: "metrics.csv",
		Content:  "a,b\n1,2\n",
		MimeType: "text/csv",
		DataType: "business",
	})
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.Equal(t, "processed_offline", result.Status)
	assert.Equal(t, "CSV", result.ProcessedData["format"])
	assert.Equal(t, "metrics.csv", result.ProcessedData["filename"])
	recs, ok := result.Insights["recommendations"].([]string)
	require.True(t, ok)
	assert.Len(t, recs, 3)
}

func TestPredictReturnsUnavailable(t *testing.T) {
	client := NewClient(config.MLConfig{BaseURL: "http://127.0.0.1:1"}, silentLogger())

	_, err := client.Predict(context.Background(), json.RawMessage(`{"scores":[1,2,3]}`))

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPostSurfacesBackendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(config.MLConfig{BaseURL: server.URL}, silentLogger())

	_, err := client.Sentiment(context.Background(), json.RawMessage(`{}`))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "400")
}
