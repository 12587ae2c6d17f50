package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
)

var (
	ErrRecordNotFound      = errors.New("library record not found")
	ErrSyncRecordNotFound  = errors.New("sync record not found")
	ErrBookNotFound        = errors.New("hardcover book not found")
	ErrUserBookNotFound    = errors.New("hardcover user book not found")
	ErrNoUsableIdentifiers = errors.New("no usable hardcover identifiers")
	ErrGraphQLTransport    = errors.New("graphql transport failure")
	ErrGraphQLErrors       = errors.New("graphql response carries errors")
)

type (
	ContextKey        string
	missingFieldError string
)

const (
	SyncRecordIDPrefix      string     = "s"
	RequestIDPrefix         string     = "r"
	RequestIDContextKey     ContextKey = "request.id"
	RequestNumberContextKey ContextKey = "request.number"

	// UserTokenHeader carries the per-user hardcover token on search calls.
	UserTokenHeader = "X-Hardcover-Token"
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(RequestNumberContextKey); val != nil {
		return val.(uint64)
	}
	return 0
}

// DecodeProgressEventRequestBody reads the content of a progress report request.
func DecodeProgressEventRequestBody(r *http.Request, event *ProgressEvent) error {
	if r.Body == nil {
		return errors.New("invalid progress report request body")
	}
	return json.NewDecoder(r.Body).Decode(event)
}

// ValidateProgressEventRequestBody checks a progress report before it
// gets queued. Identifier-level resolution happens later on the sync
// side, here we only refuse events the consumer could never use.
func ValidateProgressEventRequestBody(event *ProgressEvent) error {
	if len(event.Identifiers) == 0 {
		return missingFieldError("identifiers")
	}
	if event.Percent < 0 || event.Percent > 100 {
		return errors.New("percent must be between 0 and 100")
	}
	return nil
}

// DecodeImportRequestBody reads the content of a library import request.
func DecodeImportRequestBody(r *http.Request, record *MetaRecord) error {
	if r.Body == nil {
		return errors.New("invalid library import request body")
	}
	return json.NewDecoder(r.Body).Decode(record)
}

// ValidateImportRequestBody checks a library import payload. The slug
// keys the library hash so records without one cannot be stored.
func ValidateImportRequestBody(record *MetaRecord) error {
	if len(record.Title) == 0 {
		return missingFieldError("title")
	}
	if record.Identifiers[IDKindSlug] == "" {
		return missingFieldError("identifiers." + IDKindSlug)
	}
	return nil
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
