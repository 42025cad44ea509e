package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"balance-backend/internal/tasks"
)

// APIError is a non-2xx answer from the task API, with the decoded
// error message from the response body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client talks to the task API over authenticated HTTPS. One request per
// call, no retries, no caching.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

type ListQuery struct {
	Priority   string
	Importance string
	DueBefore  string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

type listPayload struct {
	Success    bool             `json:"success"`
	Tasks      []tasks.Task     `json:"tasks"`
	Pagination tasks.Pagination `json:"pagination"`
}

func (c *Client) ListTasks(ctx context.Context, q ListQuery) ([]tasks.Task, tasks.Pagination, error) {
	vals := url.Values{}
	if q.Priority != "" {
		vals.Set("priority", q.Priority)
	}
	if q.Importance != "" {
		vals.Set("importance", q.Importance)
	}
	if q.DueBefore != "" {
		vals.Set("due_before", q.DueBefore)
	}
	if q.SortBy != "" {
		vals.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		vals.Set("sortOrder", q.SortOrder)
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		vals.Set("offset", strconv.Itoa(q.Offset))
	}

	var out listPayload
	if err := c.do(ctx, http.MethodGet, "/tasks", vals, nil, &out); err != nil {
		return nil, tasks.Pagination{}, err
	}
	return out.Tasks, out.Pagination, nil
}

type CreateTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Importance  string `json:"importance,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, req CreateTask) (tasks.Task, error) {
	var out struct {
		Success bool       `json:"success"`
		Task    tasks.Task `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, req, &out); err != nil {
		return tasks.Task{}, err
	}
	return out.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, u tasks.Update) error {
	return c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), nil, u, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Analyze(ctx context.Context, typ tasks.AnalysisType) (tasks.Analysis, error) {
	vals := url.Values{}
	vals.Set("type", string(typ))

	var out struct {
		Success bool `json:"success"`
		tasks.Analysis
	}
	if err := c.do(ctx, http.MethodGet, "/tasks/analysis", vals, nil, &out); err != nil {
		return tasks.Analysis{}, err
	}
	return out.Analysis, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewBuffer(b)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&e)
		return &APIError{Status: res.StatusCode, Message: e.Error}
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
