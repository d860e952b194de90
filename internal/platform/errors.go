package platform

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// RejectedError is a platform-level refusal: the network answered and
// declined the request. Retrying the same content will not help.
type RejectedError struct {
	Platform   string
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s rejected post: %s", e.Platform, e.Body)
	}
	return fmt.Sprintf("%s rejected post (status %d): %s", e.Platform, e.StatusCode, e.Body)
}

// UnavailableError is a transport-level failure: timeout, connection
// error, or a 5xx answer.
type UnavailableError struct {
	Platform string
	Err      error
	Body     string
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Platform, e.Err)
	}
	return fmt.Sprintf("%s unavailable: %s", e.Platform, e.Body)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

func IsUnavailable(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable)
}

// classifyResponse turns a non-2xx answer into the matching error
// type, carrying the response body as the diagnostic.
func classifyResponse(platformName string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 500 {
		return &UnavailableError{Platform: platformName, Body: string(body)}
	}
	return &RejectedError{Platform: platformName, StatusCode: resp.StatusCode, Body: string(body)}
}
