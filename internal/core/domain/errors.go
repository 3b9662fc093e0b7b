package domain

import (
	"errors"
	"fmt"
)

var (
	ErrChannelNotFound        = errors.New("channel not found")
	ErrUploadsPlaylistMissing = errors.New("uploads playlist id missing")
)

// ConfigError reports a required setting that could not be resolved.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("config %s: missing", e.Key)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UpstreamError wraps a failed or malformed YouTube API response.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("youtube %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
