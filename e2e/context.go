package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries per-scenario HTTP state against a running API.
type TestContext struct {
	BaseURL string
	Client  *http.Client

	pending      map[string]string
	lastResponse *http.Response
	lastBody     []byte
}

// NewTestContext builds a context targeting baseURL.
func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
		pending: map[string]string{},
	}
}

// Reset clears headers and the last response between scenarios.
func (tc *TestContext) Reset() {
	tc.pending = map[string]string{}
	tc.lastResponse = nil
	tc.lastBody = nil
}

// SetHeader stages a header for the next request.
func (tc *TestContext) SetHeader(key, value string) {
	tc.pending[key] = value
}

// GET issues a GET with staged headers plus any extras.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

// POST issues a JSON POST with staged headers.
func (tc *TestContext) POST(path string, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(raw), map[string]string{"Content-Type": "application/json"})
}

func (tc *TestContext) do(method, path string, body io.Reader, headers map[string]string) error {
	req, err := http.NewRequest(method, tc.BaseURL+path, body)
	if err != nil {
		return err
	}
	for k, v := range tc.pending {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	tc.lastResponse = resp
	return nil
}

// StatusCode returns the last response status, or 0 before any request.
func (tc *TestContext) StatusCode() int {
	if tc.lastResponse == nil {
		return 0
	}
	return tc.lastResponse.StatusCode
}

// ResponseHeader reads a header from the last response.
func (tc *TestContext) ResponseHeader(key string) string {
	if tc.lastResponse == nil {
		return ""
	}
	return tc.lastResponse.Header.Get(key)
}

// ResponseBody returns the raw last response body.
func (tc *TestContext) ResponseBody() []byte {
	return tc.lastBody
}

// GetResponseField reads a top-level or dotted field from a JSON body.
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	var cur interface{} = doc
	for _, part := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		cur, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %q not found", field)
		}
	}
	return cur, nil
}

// ResponseContains reports whether the JSON body has field.
func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}
