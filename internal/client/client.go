package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bojo500/the-reporter/internal/models"
)

// ErrSessionExpired is returned when the server answers 401 to an
// authenticated request. The stored session is cleared before this is
// returned, matching the browser client's interceptor.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError carries the status and message from an error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to The Reporter API.
type Client struct {
	baseURL string
	http    *http.Client
	store   *SessionStore
}

// New returns a Client for baseURL using the given session store.
func New(baseURL string, store *SessionStore) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
	}
}

// do sends one request. When authed is true the stored token is attached,
// and a 401 response clears the session and returns ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		sess, err := c.store.Load()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if authed && resp.StatusCode == http.StatusUnauthorized {
		_ = c.store.Clear()
		return ErrSessionExpired
	}

	if resp.StatusCode >= 400 {
		var envelope models.Envelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Message == "" {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// envelope decodes {statusCode, data} bodies into data.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func (c *Client) getData(ctx context.Context, path string, out interface{}) error {
	var env envelope
	if err := c.do(ctx, http.MethodGet, path, nil, true, &env); err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// Register creates an account. No session is stored; the user must verify
// their email and log in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", req, false, nil)
}

// loginBody mirrors the flat login response: token and user fields at the
// top level.
type loginBody struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	models.User
}

// Login authenticates and persists the session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var body loginBody
	err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, false, &body)
	if err != nil {
		return nil, err
	}

	sess := &Session{Token: body.Token, User: body.User}
	if err := c.store.Save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout clears the stored session. There is no server-side session to
// revoke; tokens simply age out.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// VerifyEmail consumes a verification token from a mailed link.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/auth/verify-email?token="+token, nil, false, nil)
}

// CheckAuth asks the server who the stored session belongs to.
func (c *Client) CheckAuth(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.getData(ctx, "/auth/check-auth", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Users lists all users.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.getData(ctx, "/users/", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Shifts lists all shifts.
func (c *Client) Shifts(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := c.getData(ctx, "/shifts/", &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// ShiftsByUser lists one user's shifts.
func (c *Client) ShiftsByUser(ctx context.Context, userID int) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := c.getData(ctx, fmt.Sprintf("/shifts/user/%d", userID), &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// CreateShift opens a shift.
func (c *Client) CreateShift(ctx context.Context, req models.CreateShiftRequest) (*models.Shift, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/shifts/", req, true, &env); err != nil {
		return nil, err
	}
	var shift models.Shift
	if err := json.Unmarshal(env.Data, &shift); err != nil {
		return nil, err
	}
	return &shift, nil
}

// CreateReport submits a filled report for an open shift.
func (c *Client) CreateReport(ctx context.Context, req models.CreateCCSRequest) (*models.CCSReport, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/ccs/", req, true, &env); err != nil {
		return nil, err
	}
	var report models.CCSReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Reports lists all reports.
func (c *Client) Reports(ctx context.Context) ([]models.CCSReport, error) {
	var reports []models.CCSReport
	if err := c.getData(ctx, "/ccs/", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// ReportsByUser lists one user's reports.
func (c *Client) ReportsByUser(ctx context.Context, userID int) ([]models.CCSReport, error) {
	var reports []models.CCSReport
	if err := c.getData(ctx, fmt.Sprintf("/ccs/user/%d", userID), &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Export downloads the report table as an xlsx workbook.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	sess, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ccs/export", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.store.Clear()
		return nil, ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return io.ReadAll(resp.Body)
}
