// Package upload validates candidate logo files before any decoding starts.
package upload

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

var (
	// ErrUnsupportedType rejects files outside the MIME allow-list.
	ErrUnsupportedType = errors.New("upload: unsupported file type")
	// ErrTooLarge rejects files above the byte ceiling.
	ErrTooLarge = errors.New("upload: file too large")
)

// DefaultMaxBytes is the 5 MiB upload ceiling.
const DefaultMaxBytes = 5 * 1024 * 1024

// DefaultAllowed lists the accepted logo MIME types.
var DefaultAllowed = []string{"image/jpeg", "image/png"}

// File describes a candidate upload without its contents.
type File struct {
	Name     string
	MIMEType string
	Size     int64
}

// Error is a rejected upload. It unwraps to ErrUnsupportedType or ErrTooLarge.
type Error struct {
	File File
	Err  error
	Max  int64 // ceiling in force when Err is ErrTooLarge
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s (%s, %d bytes)", e.Err, e.File.Name, e.File.MIMEType, e.File.Size)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the text shown to the user for a rejected upload.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return "Please upload a JPG or PNG file only."
	case errors.Is(err, ErrTooLarge):
		limit := int64(DefaultMaxBytes)
		var ue *Error
		if errors.As(err, &ue) && ue.Max > 0 {
			limit = ue.Max
		}
		return fmt.Sprintf("File size exceeds %s. Please upload a smaller file.", formatSize(limit))
	default:
		return "Error reading file. Please try again."
	}
}

// Gate accepts or rejects uploads by type and size. The zero value rejects
// everything; use NewGate or DefaultGate.
type Gate struct {
	allowed  map[string]bool
	maxBytes int64
}

// NewGate builds a gate from an allow-list and a byte ceiling.
func NewGate(allowed []string, maxBytes int64) *Gate {
	g := &Gate{allowed: make(map[string]bool, len(allowed)), maxBytes: maxBytes}
	for _, t := range allowed {
		g.allowed[normalize(t)] = true
	}
	return g
}

// DefaultGate accepts JPEG and PNG up to 5 MiB.
func DefaultGate() *Gate {
	return NewGate(DefaultAllowed, DefaultMaxBytes)
}

// Validate checks type first, then size. It has no side effects.
func (g *Gate) Validate(f File) error {
	if !g.allowed[normalize(f.MIMEType)] {
		return &Error{File: f, Err: ErrUnsupportedType}
	}
	if f.Size > g.maxBytes {
		return &Error{File: f, Err: ErrTooLarge, Max: g.maxBytes}
	}
	return nil
}

// MaxBytes returns the configured ceiling.
func (g *Gate) MaxBytes() int64 { return g.maxBytes }

// Sniff detects the MIME type of file contents, for front ends that cannot
// report a declared type.
func Sniff(data []byte) string {
	return normalize(http.DetectContentType(data))
}

// formatSize renders n as whole MB or KB where it divides evenly.
func formatSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

// normalize lowercases a media type and strips parameters.
func normalize(t string) string {
	t = strings.TrimSpace(t)
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return strings.ToLower(t)
}
