package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/api/dashboard/tabs/x").
		WithExtension("trace_id", "abc").
		WithExtension("type", "ignored")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, TypeNotFound, raw["type"], "standard members win over extensions")
	assert.Equal(t, "Not Found", raw["title"])
	assert.EqualValues(t, 404, raw["status"])
	assert.Equal(t, "/api/dashboard/tabs/x", raw["instance"])
	assert.Equal(t, "abc", raw["trace_id"])
	assert.NotContains(t, raw, "detail")
}

func TestProblemDetails_RoundTrip(t *testing.T) {
	in := NewProblemDetails(http.StatusBadRequest, TypeUnknownTab, "Bad Request", `unknown tab "x"`, "/api/x").
		WithExtension("error_code", "UNKNOWN_TAB")

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out ProblemDetails
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.Type, out.Type)
	assert.Equal(t, in.Status, out.Status)
	assert.Equal(t, in.Detail, out.Detail)
	assert.Equal(t, "UNKNOWN_TAB", out.Extensions["error_code"])
}

func TestWriteProblem(t *testing.T) {
	w := httptest.NewRecorder()
	WriteProblem(w, NewProblemDetails(http.StatusTooManyRequests, TypeRateLimit, "Too Many Requests", "slow down", "/api"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ContentTypeProblem, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"detail":"slow down"`)
}

func TestWithExtensionOnZeroValue(t *testing.T) {
	var pd ProblemDetails
	pd.WithExtension("k", "v")
	assert.Equal(t, "v", pd.Extensions["k"])
}
