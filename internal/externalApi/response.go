package externalApi

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// CheckStatus maps non-2xx responses to package errors.
func CheckStatus(resp *resty.Response) error {
	switch code := resp.StatusCode(); {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
}
