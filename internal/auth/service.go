package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const DefaultHeaderName = "x-api-key"

// Service checks the shared API key presented on protected routes.
type Service struct {
	apiKey     []byte
	headerName string
}

// NewService constructs an API-key checker. An empty header name falls back to x-api-key.
func NewService(apiKey, headerName string) *Service {
	headerName = strings.TrimSpace(headerName)
	if headerName == "" {
		headerName = DefaultHeaderName
	}
	return &Service{
		apiKey:     []byte(apiKey),
		headerName: http.CanonicalHeaderKey(headerName),
	}
}

// Valid reports whether the presented key matches the configured one.
func (s *Service) Valid(key string) bool {
	if len(s.apiKey) == 0 || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), s.apiKey) == 1
}

// HeaderName returns the header carrying the API key.
func (s *Service) HeaderName() string {
	return s.headerName
}
