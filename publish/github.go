package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrk-foods/cardsysbackend/config"
	"github.com/mrk-foods/cardsysbackend/models"
)

const (
	githubAPIBase = "https://api.github.com"

	// FilePath is the generated artifact committed to the target repo;
	// AssignmentTarget is the global the static card page reads.
	FilePath         = "employees-data.js"
	AssignmentTarget = "window.MRK_EMPLOYEES"
)

// ConfigError reports exactly which deployment settings are absent.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing environment variables: " + strings.Join(e.Missing, ", ")
}

// RemoteError reports a non-success response from the contents API,
// naming the failing step and the remote status code.
type RemoteError struct {
	Step    string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown"
	}
	return fmt.Sprintf("GitHub %s failed (%d): %s", e.Step, e.Status, msg)
}

// Result carries the link to the resulting change.
type Result struct {
	CommitURL string
}

// Publisher snapshots the employee record set into a static script file on
// a configured branch of a configured repository via the contents API.
// A single publish is one GET (prior content hash) and one PUT; no retries.
type Publisher struct {
	Cfg     config.GitHubConfig
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

func NewPublisher(cfg config.GitHubConfig) *Publisher {
	return &Publisher{
		Cfg:     cfg,
		BaseURL: githubAPIBase,
		Client:  &http.Client{Timeout: 30 * time.Second},
		Now:     time.Now,
	}
}

// Publish serializes the record array as a generated script assignment and
// commits it, supplying the prior content hash when the file already
// exists so a concurrent change is never silently overwritten.
func (p *Publisher) Publish(ctx context.Context, employees []models.Employee) (*Result, error) {
	if err := p.checkConfig(); err != nil {
		return nil, err
	}
	if employees == nil {
		employees = []models.Employee{}
	}

	branch := p.Cfg.Branch
	if branch == "" {
		branch = "main"
	}
	contentsURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s", p.BaseURL, p.Cfg.Owner, p.Cfg.Repo, FilePath)

	sha, err := p.fetchSHA(ctx, contentsURL, branch)
	if err != nil {
		return nil, err
	}

	fileContent, err := GenerateArtifact(employees, p.Now().UTC())
	if err != nil {
		return nil, err
	}

	putBody := map[string]any{
		"message": fmt.Sprintf("Auto-publish employees (%s)", p.Now().UTC().Format(time.RFC3339)),
		"content": base64.StdEncoding.EncodeToString([]byte(fileContent)),
		"branch":  branch,
	}
	if sha != "" {
		putBody["sha"] = sha
	}

	encoded, err := json.Marshal(putBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode publish request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, contentsURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to build publish request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("publish request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{Step: "PUT", Status: resp.StatusCode, Message: remoteMessage(respBody)}
	}

	var putData struct {
		Commit struct {
			HTMLURL string `json:"html_url"`
		} `json:"commit"`
	}
	_ = json.Unmarshal(respBody, &putData)

	return &Result{CommitURL: putData.Commit.HTMLURL}, nil
}

// fetchSHA retrieves the existing artifact's content hash. A missing file
// is the normal first-publish case and yields an empty sha.
func (p *Publisher) fetchSHA(ctx context.Context, contentsURL, branch string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, contentsURL+"?ref="+branch, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build contents request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("contents request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusOK:
		var fd struct {
			SHA string `json:"sha"`
		}
		if err := json.Unmarshal(respBody, &fd); err != nil {
			return "", fmt.Errorf("unreadable contents response: %w", err)
		}
		return fd.SHA, nil
	case resp.StatusCode == http.StatusNotFound:
		return "", nil
	default:
		return "", &RemoteError{Step: "GET", Status: resp.StatusCode, Message: remoteMessage(respBody)}
	}
}

func (p *Publisher) checkConfig() error {
	var missing []string
	if p.Cfg.Owner == "" {
		missing = append(missing, "GITHUB_OWNER")
	}
	if p.Cfg.Repo == "" {
		missing = append(missing, "GITHUB_REPO")
	}
	if p.Cfg.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

func (p *Publisher) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.Cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}

// GenerateArtifact renders the static script file mirroring the record
// store: a generation timestamp comment followed by a single assignment of
// the JSON array.
func GenerateArtifact(employees []models.Employee, now time.Time) (string, error) {
	if employees == nil {
		employees = []models.Employee{}
	}
	data, err := json.MarshalIndent(employees, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize employees: %w", err)
	}
	return fmt.Sprintf("// MRK Foods - Employee Data (auto-generated %s)\n%s = %s;\n",
		now.Format(time.RFC3339), AssignmentTarget, string(data)), nil
}

func remoteMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Message
}
