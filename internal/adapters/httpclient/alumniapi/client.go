// Package alumniapi is a Go client for the /api directory surface.
package alumniapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
	"github.com/alumni-network/alumni-api/internal/domain/directory"
)

// Session carries the bearer token sent on authenticated calls. A zero Session sends none.
type Session struct {
	Token string
}

// Filter mirrors the /api/profile/filter query parameters. Empty fields are omitted.
type Filter struct {
	GraduationYear string
	Department     string
	Location       string
	Company        string
	CompanyType    string
}

// Error is a non-2xx response decoded from the error envelope.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("alumni api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("alumni api: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// ErrNoSession is returned by authenticated calls when the client has no token.
var ErrNoSession = errors.New("alumni api: no session token")

type Client struct {
	base    *url.URL
	http    *http.Client
	session Session
}

// New builds a client for baseURL (scheme and host, optionally a path prefix before /api).
// httpClient may be nil.
func New(baseURL string, session Session, httpClient *http.Client) (*Client, error) {
	u, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return &Client{base: u, http: httpClient, session: session}, nil
}

// GetAll fetches the whole directory. It satisfies directoryview.Source.
func (c *Client) GetAll(ctx context.Context) ([]directory.Record, error) {
	return c.records(ctx, "/api/profile/all", nil)
}

func (c *Client) Search(ctx context.Context, q string) ([]directory.Record, error) {
	return c.records(ctx, "/api/profile/search", url.Values{"q": {q}})
}

func (c *Client) Filter(ctx context.Context, f Filter) ([]directory.Record, error) {
	q := url.Values{}
	for _, p := range []struct{ name, value string }{
		{"graduationYear", f.GraduationYear},
		{"department", f.Department},
		{"location", f.Location},
		{"company", f.Company},
		{"companyType", f.CompanyType},
	} {
		if p.value != "" {
			q.Set(p.name, p.value)
		}
	}
	return c.records(ctx, "/api/profile/filter", q)
}

func (c *Client) ByDepartment(ctx context.Context, department string) ([]directory.Record, error) {
	return c.records(ctx, "/api/profile/department/"+url.PathEscape(department), nil)
}

func (c *Client) ByYear(ctx context.Context, year string) ([]directory.Record, error) {
	return c.records(ctx, "/api/profile/year/"+url.PathEscape(year), nil)
}

func (c *Client) Stats(ctx context.Context) (apitypes.DirectoryStats, error) {
	var out apitypes.DirectoryStats
	err := c.do(ctx, http.MethodGet, "/api/profile/stats", nil, nil, false, &out)
	return out, err
}

// Contact asks the server to reach the owner of profileID. It needs a session.
func (c *Client) Contact(ctx context.Context, profileID, message string) error {
	var out apitypes.ContactResponse
	return c.do(ctx, http.MethodPost, "/api/profile/"+url.PathEscape(profileID)+"/contact", nil,
		apitypes.ContactRequest{Message: message}, true, &out)
}

func (c *Client) records(ctx context.Context, path string, q url.Values) ([]directory.Record, error) {
	var wire []apitypes.AlumniRecord
	if err := c.do(ctx, http.MethodGet, path, q, nil, false, &wire); err != nil {
		return nil, err
	}
	out := make([]directory.Record, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.ToDomain())
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body any, authed bool, out any) error {
	if authed && c.session.Token == "" {
		return ErrNoSession
	}

	// path segments are already escaped by the callers.
	target := c.base.String() + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var er apitypes.ErrorResponse
		if json.Unmarshal(raw, &er) == nil {
			apiErr.Code = er.Error.Code
			apiErr.Message = er.Error.Message
			if rid, err := er.Error.RequestId.Get(); err == nil {
				apiErr.RequestID = rid
			}
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
