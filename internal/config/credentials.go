package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const credentialsFile = "credentials.yaml"

// credentialStore is the on-disk shape of the credentials file: password
// keyed by host, then username.
type credentialStore struct {
	Version     int                          `yaml:"version"`
	Controllers map[string]map[string]string `yaml:"controllers"`
}

func credentialsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, credentialsFile), nil
}

func loadCredentialStore() (*credentialStore, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &credentialStore{Version: 1, Controllers: make(map[string]map[string]string)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var store credentialStore
	if err := yaml.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if store.Controllers == nil {
		store.Controllers = make(map[string]map[string]string)
	}
	return &store, nil
}

// SaveCredential stores the password for a controller host and username.
// The file is written atomically with 0600 permissions.
func SaveCredential(host, username, password string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	store, err := loadCredentialStore()
	if err != nil {
		return err
	}

	if store.Controllers[host] == nil {
		store.Controllers[host] = make(map[string]string)
	}
	store.Controllers[host][username] = password

	if err := ensureConfigDir(); err != nil {
		return err
	}

	path, err := credentialsPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(store)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary credentials file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save credentials file: %w", err)
	}

	return nil
}

// RetrieveCredential looks up the stored password for a controller host
// and username. Lookup misses and read failures both report "not stored";
// callers fall back to prompting.
func RetrieveCredential(host, username string) (string, bool) {
	store, err := loadCredentialStore()
	if err != nil {
		return "", false
	}

	users, ok := store.Controllers[host]
	if !ok {
		return "", false
	}
	password, ok := users[username]
	return password, ok
}
