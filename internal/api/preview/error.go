package preview

import (
	"SmartCapture/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound = response.NewError(http.StatusNotFound, "preview session not found or expired")
)
