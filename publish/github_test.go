package publish

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrk-foods/cardsysbackend/config"
	"github.com/mrk-foods/cardsysbackend/models"
)

func testPublisher(baseURL string) *Publisher {
	p := NewPublisher(config.GitHubConfig{
		Owner:  "mrk-foods",
		Repo:   "cards-site",
		Branch: "main",
		Token:  "test-token",
	})
	p.BaseURL = baseURL
	p.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPublishReportsMissingConfig(t *testing.T) {
	p := NewPublisher(config.GitHubConfig{})

	_, err := p.Publish(context.Background(), nil)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"GITHUB_OWNER", "GITHUB_REPO", "GITHUB_TOKEN"}, cfgErr.Missing)
	assert.Contains(t, cfgErr.Error(), "GITHUB_TOKEN")
}

func TestPublishFirstTimeOmitsSHA(t *testing.T) {
	var putBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/mrk-foods/cards-site/contents/employees-data.js", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		require.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))

		switch r.Method {
		case http.MethodGet:
			require.Equal(t, "main", r.URL.Query().Get("ref"))
			http.NotFound(w, r)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"commit":{"html_url":"https://github.example/commit/abc"}}`))
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	result, err := testPublisher(srv.URL).Publish(context.Background(), []models.Employee{
		{ID: "emp1", Name: "Jane Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.example/commit/abc", result.CommitURL)

	_, hasSHA := putBody["sha"]
	assert.False(t, hasSHA, "first publish has no prior content hash")
	assert.Equal(t, "main", putBody["branch"])

	decoded, err := base64.StdEncoding.DecodeString(putBody["content"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "window.MRK_EMPLOYEES = [")
	assert.Contains(t, string(decoded), `"name": "Jane Doe"`)
}

func TestPublishUpdatePassesPriorSHA(t *testing.T) {
	var putBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"sha":"oldsha123"}`))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			_, _ = w.Write([]byte(`{"commit":{"html_url":"https://github.example/commit/def"}}`))
		}
	}))
	defer srv.Close()

	_, err := testPublisher(srv.URL).Publish(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "oldsha123", putBody["sha"])

	decoded, err := base64.StdEncoding.DecodeString(putBody["content"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "window.MRK_EMPLOYEES = [];", "nil snapshot publishes an empty array")
}

func TestPublishSurfacesRemoteFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testPublisher(srv.URL).Publish(context.Background(), nil)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "GET", remoteErr.Step)
	assert.Equal(t, http.StatusUnauthorized, remoteErr.Status)
	assert.Equal(t, "GitHub GET failed (401): Bad credentials", remoteErr.Error())
}

func TestPublishSurfacesPutFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			http.NotFound(w, r)
			return
		}
		http.Error(w, `{"message":"Conflict"}`, http.StatusConflict)
	}))
	defer srv.Close()

	_, err := testPublisher(srv.URL).Publish(context.Background(), nil)

	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "PUT", remoteErr.Step)
	assert.Equal(t, http.StatusConflict, remoteErr.Status)
}

func TestGenerateArtifact(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	out, err := GenerateArtifact([]models.Employee{
		{ID: "emp1", Name: "Jane Doe", CreatedAt: 1000, UpdatedAt: 2000},
	}, now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "// MRK Foods - Employee Data (auto-generated 2024-05-01T12:00:00Z)\n"))
	assert.Contains(t, out, "window.MRK_EMPLOYEES = [\n")
	assert.True(t, strings.HasSuffix(out, ";\n"))

	// the assignment payload is plain JSON the static page can trust
	start := strings.Index(out, "[")
	payload := strings.TrimSuffix(out[start:], ";\n")
	var parsed []models.Employee
	require.NoError(t, json.Unmarshal([]byte(payload), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "emp1", parsed[0].ID)
	assert.EqualValues(t, 2000, parsed[0].UpdatedAt)
}

func TestGenerateArtifactEmpty(t *testing.T) {
	out, err := GenerateArtifact(nil, time.Unix(0, 0).UTC())
	require.NoError(t, err)
	assert.Contains(t, out, "window.MRK_EMPLOYEES = [];")
}
