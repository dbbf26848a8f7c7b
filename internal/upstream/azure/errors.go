package azure

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mandalnilabja/promptgate/internal/types"
)

// UpstreamError is an error response from the Azure API.
type UpstreamError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// decodeAPIError reads an error response into an UpstreamError.
func decodeAPIError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &UpstreamError{StatusCode: resp.StatusCode}
	}

	var apiErr types.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return &UpstreamError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	return &UpstreamError{
		StatusCode: resp.StatusCode,
		Message:    apiErr.Error.Message,
		Type:       apiErr.Error.Type,
	}
}
