package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	codeModelError = "ModelError"
	codeThrottling = "ThrottlingException"
)

// backendError is a failure the QA backend itself reported, carrying the
// error code used to classify it. Transport failures are plain errors.
type backendError struct {
	status  int
	code    string
	message string
}

func (e *backendError) Error() string {
	return fmt.Sprintf("qa backend error %d (%s): %s", e.status, e.code, e.message)
}

func (e *backendError) isModelError() bool { return e.code == codeModelError }

func (e *backendError) isThrottling() bool {
	return e.code == codeThrottling || e.status == http.StatusTooManyRequests
}

type backendClient struct {
	endpoint string
	httpc    *http.Client
}

func newBackendClient(endpoint string) *backendClient {
	return &backendClient{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: 60 * time.Second},
	}
}

// invoke posts the two-element [question, context] list and parses the
// response. A JSON object with an "answer" field yields that field;
// anything else decodable comes back stringified as-is.
func (b *backendClient) invoke(ctx context.Context, question, contextText string) (string, error) {
	payload, err := json.Marshal([]string{question, contextText})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", parseBackendError(resp.StatusCode, body)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		if answer, ok := decoded["answer"].(string); ok {
			return answer, nil
		}
	}
	return string(body), nil
}

// parseBackendError extracts the error code from either the flat
// {"code","message"} shape or the wrapped {"error":{"code","message"}} one.
func parseBackendError(status int, body []byte) *backendError {
	be := &backendError{status: status, message: string(body)}

	var flat struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil {
		switch {
		case flat.Code != "":
			be.code = flat.Code
			be.message = flat.Message
		case flat.Error.Code != "":
			be.code = flat.Error.Code
			be.message = flat.Error.Message
		}
	}
	return be
}
