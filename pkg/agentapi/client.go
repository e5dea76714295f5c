// Package agentapi is the HTTP client for the external agent service.
package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agentconsole/internal/model"
	"agentconsole/pkg/config"
	"agentconsole/pkg/interfaces"
	"agentconsole/pkg/logger"

	"github.com/go-resty/resty/v2"
)

const agentsPath = "/api/agents"

// ErrMissingAgentID is returned for update and get calls without an agent id
var ErrMissingAgentID = errors.New("agent id is required")

// APIError non-2xx response from the agent service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("agent service returned %d: %s", e.StatusCode, e.Message)
}

// Client agent service client
type Client struct {
	baseURL string
	client  *resty.Client
}

var (
	_ interfaces.AgentService = (*Client)(nil)
	_ interfaces.AgentReader  = (*Client)(nil)
)

// NewClient creates an agent service client from configuration
func NewClient(cfg config.AgentServiceConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultAgentServiceURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}

	return &Client{baseURL: baseURL, client: rc}
}

// BaseURL returns the agent service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateAgent posts the create payload as multipart/form-data
func (c *Client) CreateAgent(ctx context.Context, payload *model.AgentPayload) (*model.CreateAgentResult, error) {
	if payload == nil {
		return nil, errors.New("create payload is nil")
	}

	req := c.client.R().
		SetContext(ctx).
		SetMultipartFormData(payload.Values())
	if f := payload.ConfigFile; f != nil {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.SetMultipartField(model.FieldConfigFile, f.Filename, contentType, bytes.NewReader(f.Content))
	}

	start := time.Now()
	resp, err := req.Post(agentsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	logger.DebugCtx(ctx, "[AgentAPI] POST %s -> %d (%v)", agentsPath, resp.StatusCode(), time.Since(start))

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	result := &model.CreateAgentResult{Raw: map[string]interface{}{}}
	if len(bytes.TrimSpace(resp.Body())) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(resp.Body(), &result.Raw); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}
	result.ID = stringID(result.Raw["id"])
	return result, nil
}

// UpdateAgent puts the update payload as JSON
func (c *Client) UpdateAgent(ctx context.Context, id string, payload map[string]interface{}) error {
	if id == "" {
		return ErrMissingAgentID
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}

	path := agentPath(id)
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put(path)
	if err != nil {
		return fmt.Errorf("failed to update agent %s: %w", id, err)
	}
	logger.DebugCtx(ctx, "[AgentAPI] PUT %s -> %d", path, resp.StatusCode())

	return checkResponse(resp)
}

// GetAgent loads one agent record
func (c *Client) GetAgent(ctx context.Context, id string) (*model.Agent, error) {
	if id == "" {
		return nil, ErrMissingAgentID
	}

	agent := &model.Agent{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(agent).
		Get(agentPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get agent %s: %w", id, err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	if agent.ID == "" {
		agent.ID = id
	}
	return agent, nil
}

func agentPath(id string) string {
	return agentsPath + "/" + url.PathEscape(id)
}

func checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
}

// errorMessage extracts {"error"|"msg"|"detail"} from an error body
func errorMessage(resp *resty.Response) string {
	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		for _, key := range []string{"error", "msg", "detail"} {
			if v, ok := body[key]; ok && v != nil {
				if s := fmt.Sprint(v); s != "" {
					return s
				}
			}
		}
	}
	if text := strings.TrimSpace(string(resp.Body())); text != "" && len(text) <= 256 {
		return text
	}
	return http.StatusText(resp.StatusCode())
}

func stringID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return fmt.Sprint(id)
	}
}
