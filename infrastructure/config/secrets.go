package config

import (
	"TUI_channel_analytics/internal/core/domain"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultSecretsFile = ".streamlit/secrets.toml"

type Secrets struct {
	APIKey    string `toml:"api_key"`
	ChannelID string `toml:"channel_id"`
}

type secretsDocument struct {
	YouTube Secrets `toml:"youtube"`
}

type SecretStore interface {
	LoadSecrets() (Secrets, error)
}

type fileSecretStore struct {
	path   string
	lookup LookupFunc
}

// NewSecretStore reads the [youtube] table of a TOML file. YOUTUBE_API_KEY and
// YOUTUBE_CHANNEL_ID from lookup take precedence over the file, and the file
// may be absent when both are set.
func NewSecretStore(path string, lookup LookupFunc) SecretStore {
	if path == "" {
		path = DefaultSecretsFile
	}
	return &fileSecretStore{path: path, lookup: lookup}
}

func (s *fileSecretStore) LoadSecrets() (Secrets, error) {
	var doc secretsDocument
	if _, err := toml.DecodeFile(s.path, &doc); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Secrets{}, &domain.ConfigError{Key: "secrets_file", Err: fmt.Errorf("error while decoding %s: %w", s.path, err)}
	}

	secrets := doc.YouTube
	if v, ok := s.lookup("YOUTUBE_API_KEY"); ok && v != "" {
		secrets.APIKey = v
	}
	if v, ok := s.lookup("YOUTUBE_CHANNEL_ID"); ok && v != "" {
		secrets.ChannelID = v
	}
	secrets.APIKey = strings.TrimSpace(secrets.APIKey)
	secrets.ChannelID = strings.TrimSpace(secrets.ChannelID)

	if secrets.APIKey == "" {
		return Secrets{}, &domain.ConfigError{Key: "youtube.api_key"}
	}
	if secrets.ChannelID == "" {
		return Secrets{}, &domain.ConfigError{Key: "youtube.channel_id"}
	}

	return secrets, nil
}
