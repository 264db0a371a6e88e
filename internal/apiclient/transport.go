package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/raborimet/crm-api/internal/wire"
)

// sessionHook is what the credential stage needs from the session manager:
// a token to attach and a logout to force on unauthorized responses.
type sessionHook interface {
	Token() (string, bool)
	Logout()
}

// CredentialTransport attaches the bearer credential to outgoing requests
// and reacts to unauthorized responses. Login and registration requests pass
// through untouched. A 401 on the verification endpoint is left alone so the
// verification's own failure handling owns the outcome; a 401 anywhere else
// forces a full logout. The response is always returned unchanged.
type CredentialTransport struct {
	next     http.RoundTripper
	sessions sessionHook
}

// NewCredentialTransport wraps next with the credential stage.
func NewCredentialTransport(next http.RoundTripper, sessions sessionHook) *CredentialTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &CredentialTransport{next: next, sessions: sessions}
}

func (t *CredentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isCredentialExempt(req.URL.Path) {
		return t.next.RoundTrip(req)
	}

	if token, ok := t.sessions.Token(); ok {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && !isVerifyPath(req.URL.Path) {
		t.sessions.Logout()
	}
	return resp, nil
}

func isCredentialExempt(path string) bool {
	return strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/auth/register")
}

func isVerifyPath(path string) bool {
	return strings.HasSuffix(path, "/auth/verify")
}

// CasingTransport converts JSON request bodies from the application's
// camelCase convention to the backend's snake_case wire format, and JSON
// response bodies back again. Non-JSON payloads (file uploads, binary
// content) pass through byte-for-byte untouched.
type CasingTransport struct {
	next http.RoundTripper
}

// NewCasingTransport wraps next with the case conversion stage.
func NewCasingTransport(next http.RoundTripper) *CasingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &CasingTransport{next: next}
}

func (t *CasingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil && isJSONMedia(req.Header.Get("Content-Type")) {
		converted, err := convertBody(req.Body, wire.ToSnakeKeys)
		if err != nil {
			return nil, err
		}
		req = req.Clone(req.Context())
		req.Body = io.NopCloser(bytes.NewReader(converted))
		req.ContentLength = int64(len(converted))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(converted)), nil
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil && isJSONMedia(resp.Header.Get("Content-Type")) {
		converted, err := convertBody(resp.Body, wire.ToCamelKeys)
		if err != nil {
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewReader(converted))
		resp.ContentLength = int64(len(converted))
		resp.Header.Set("Content-Length", strconv.Itoa(len(converted)))
	}
	return resp, nil
}

// convertBody reads a JSON body and rewrites its keys. Empty or malformed
// bodies come back byte-for-byte unchanged.
func convertBody(body io.ReadCloser, transform func(any) any) ([]byte, error) {
	raw, err := io.ReadAll(body)
	closeErr := body.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}
	if len(raw) == 0 {
		return raw, nil
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return raw, nil
	}
	return json.Marshal(transform(tree))
}

func isJSONMedia(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
