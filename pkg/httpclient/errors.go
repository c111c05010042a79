package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/harith2255/ecommerce-frontend/pkg/errors"
)

// upstreamErrorBody is the error shape returned by the platform API:
// a plain {"message": "..."} object.
type upstreamErrorBody struct {
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx response from the platform
// API and translates it into an AppError that preserves the upstream status.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, endpoint string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", endpoint, resp.StatusCode, err)
	}

	message := ""
	var body upstreamErrorBody
	if json.Unmarshal(bodyBytes, &body) == nil && body.Message != "" {
		message = body.Message
	}
	if message == "" {
		message = fmt.Sprintf("%s returned status %d", endpoint, resp.StatusCode)
	}

	qualified := fmt.Sprintf("%s: %s", endpoint, message)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: message,
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualified)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s server error (%d): %s", endpoint, resp.StatusCode, message)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualified,
			Status:  resp.StatusCode,
		}
	}
}
