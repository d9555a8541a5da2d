package capture

import (
	"SmartCapture/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound    = response.NewError(http.StatusNotFound, "capture session not found")
	ErrSessionMismatch    = response.NewError(http.StatusForbidden, "stream token does not match session")
	ErrStorageUnavailable = response.NewError(http.StatusBadGateway, "capture storage unavailable")
)
