package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taskdeck/webapp/internal/contracts"
)

// ErrUnavailable marks network failures and non-JSON responses from the task
// service. Handlers map it to 502.
var ErrUnavailable = errors.New("task service unavailable")

// APIError is a non-2xx response from the task service. Status is the
// upstream HTTP status and propagates through the route handlers.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type AuthResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        contracts.Identity `json:"user"`
}

type RegisterResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type TaskList struct {
	Tasks []contracts.Task `json:"tasks"`
	Count int              `json:"count"`
}

// TaskInput carries the writable task fields for create and update. Pointer
// fields are omitted when unset so partial updates stay partial.
type TaskInput struct {
	Title       *string                      `json:"title,omitempty"`
	Description *string                      `json:"description,omitempty"`
	Priority    *string                      `json:"priority,omitempty"`
	DueDate     *string                      `json:"due_date,omitempty"`
	IsRecurring *bool                        `json:"is_recurring,omitempty"`
	Recurrence  *contracts.RecurrencePattern `json:"recurrence_pattern,omitempty"`
	Tags        []string                     `json:"tags,omitempty"`
}

type ChatResponse struct {
	ConversationID int64  `json:"conversation_id"`
	Response       string `json:"response"`
}

// Client is a typed HTTP client for the task service. The bearer token is an
// explicit parameter on every authenticated call; the client itself holds no
// credential state.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, "", http.MethodPost, "/api/auth/login", nil, credentials{email, password}, &resp)
	return resp, err
}

func (c *Client) Register(ctx context.Context, email, password string) (RegisterResponse, error) {
	var resp RegisterResponse
	err := c.do(ctx, "", http.MethodPost, "/api/auth/register", nil, credentials{email, password}, &resp)
	return resp, err
}

// ListTasks fetches the plain task list. completed is one of "all",
// "pending", "completed"; the zero value means "all".
func (c *Client) ListTasks(ctx context.Context, token, userID, completed string) (TaskList, error) {
	query := url.Values{}
	if completed == "" {
		completed = "all"
	}
	query.Set("completed", completed)

	var resp TaskList
	err := c.do(ctx, token, http.MethodGet, "/api/"+url.PathEscape(userID)+"/tasks", query, nil, &resp)
	return resp, err
}

// SearchTasks passes the caller's query parameters through verbatim; the
// backend owns all filtering in advanced-search mode.
func (c *Client) SearchTasks(ctx context.Context, token, userID string, query url.Values) (TaskList, error) {
	var resp TaskList
	err := c.do(ctx, token, http.MethodGet, "/api/"+url.PathEscape(userID)+"/tasks", query, nil, &resp)
	return resp, err
}

func (c *Client) CreateTask(ctx context.Context, token, userID string, input TaskInput) (contracts.Task, error) {
	var task contracts.Task
	err := c.do(ctx, token, http.MethodPost, "/api/"+url.PathEscape(userID)+"/tasks", nil, input, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, token, userID string, taskID int64, input TaskInput) (contracts.Task, error) {
	var task contracts.Task
	err := c.do(ctx, token, http.MethodPut, c.taskPath(userID, taskID), nil, input, &task)
	return task, err
}

func (c *Client) ToggleTask(ctx context.Context, token, userID string, taskID int64, completed bool) (contracts.Task, error) {
	var task contracts.Task
	err := c.do(ctx, token, http.MethodPatch, c.taskPath(userID, taskID), nil, map[string]bool{"completed": completed}, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, token, userID string, taskID int64) error {
	return c.do(ctx, token, http.MethodDelete, c.taskPath(userID, taskID), nil, nil, nil)
}

func (c *Client) Chat(ctx context.Context, token, userID string, conversationID *int64, message string) (ChatResponse, error) {
	payload := map[string]any{
		"conversation_id": conversationID,
		"message":         message,
	}
	var resp ChatResponse
	err := c.do(ctx, token, http.MethodPost, "/api/"+url.PathEscape(userID)+"/chat", nil, payload, &resp)
	return resp, err
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) taskPath(userID string, taskID int64) string {
	return "/api/" + url.PathEscape(userID) + "/tasks/" + strconv.FormatInt(taskID, 10)
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewBuffer(encoded)
	} else {
		payload = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response body", ErrUnavailable)
	}
	return nil
}

// readErrorMessage extracts the error string from a FastAPI-style {"detail"}
// body or a {"error"} body, falling back to the HTTP status.
func readErrorMessage(resp *http.Response) string {
	var body struct {
		Detail string `json:"detail"`
		Err    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Err != "" {
			return body.Err
		}
	}
	return "HTTP " + strconv.Itoa(resp.StatusCode)
}
