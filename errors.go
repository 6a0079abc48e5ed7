package main

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the article URL lacks a scheme or host
	ErrInvalidInput = errors.New("invalid input")
	// ErrFetch is returned when a remote resource answers outside the 2xx range
	ErrFetch = errors.New("fetch failed")
	// ErrMissingMetadata is returned when og:image or the title tag is absent
	ErrMissingMetadata = errors.New("missing metadata")
	// ErrImageTooLarge is returned when an image declares more pixels than we decode
	ErrImageTooLarge = errors.New("image too large")
)

// FetchError describes a non-2xx HTTP response
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("received a status code of %d from %s", e.StatusCode, e.URL)
}

func (e *FetchError) Unwrap() error {
	return ErrFetch
}

// MissingMetadataError names the metadata field that could not be found
type MissingMetadataError struct {
	URL   string
	Field string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("no %s found on %s", e.Field, e.URL)
}

func (e *MissingMetadataError) Unwrap() error {
	return ErrMissingMetadata
}
