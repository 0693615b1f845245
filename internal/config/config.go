// Package config resolves which store the CLI opens.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/routines/internal/constants"
	"github.com/julianstephens/routines/internal/keyring"
	"github.com/julianstephens/routines/internal/logger"
	"github.com/julianstephens/routines/internal/storage"
	"github.com/julianstephens/routines/internal/storage/postgres"
)

// Source records where a storage target came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "environment"
	SourceDotEnv  Source = ".env"
	SourceKeyring Source = "keyring"
	SourceDefault Source = "default"
)

// Target is a resolved storage location.
type Target struct {
	Value  string
	Source Source
}

// Backend reports which store Value selects.
func (t Target) Backend() storage.Backend {
	return storage.BackendFor(t.Value)
}

// String is safe to print: PostgreSQL targets are reduced to their backend
// name.
func (t Target) String() string {
	if t.Backend() == storage.BackendPostgres {
		return fmt.Sprintf("postgresql (%s)", t.Source)
	}
	return fmt.Sprintf("%s (%s)", t.Value, t.Source)
}

type Resolver struct {
	// ConfigDir holds the .env file and the default database.
	ConfigDir string
	Getenv    func(string) string
	Keyring   func() (string, error)
}

// NewResolver reads the real environment and OS keyring.
func NewResolver() (*Resolver, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return nil, err
	}
	return &Resolver{
		ConfigDir: dir,
		Getenv:    os.Getenv,
		Keyring:   keyring.GetConnectionString,
	}, nil
}

func DefaultConfigDir() (string, error) {
	path, err := ExpandHome(constants.DefaultConfigPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Resolve picks the storage target: an explicit flag, then
// ROUTINES_DB_CONNECTION from the environment, then from the .env file in
// ConfigDir, then the keyring, then the default SQLite database.
//
// A PostgreSQL flag value must not carry a password. Secrets belong in the
// other sources.
func (r *Resolver) Resolve(flag string) (Target, error) {
	if flag != "" {
		if storage.BackendFor(flag) == storage.BackendPostgres {
			if _, err := postgres.ValidateConnString(flag); err != nil {
				return Target{}, err
			}
			return Target{Value: flag, Source: SourceFlag}, nil
		}
		path, err := ExpandHome(flag)
		if err != nil {
			return Target{}, err
		}
		return Target{Value: path, Source: SourceFlag}, nil
	}

	if v := strings.TrimSpace(r.getenv(constants.ConnectionEnvVar)); v != "" {
		return Target{Value: v, Source: SourceEnv}, nil
	}

	if v, err := r.dotEnv(); err != nil {
		return Target{}, err
	} else if v != "" {
		return Target{Value: v, Source: SourceDotEnv}, nil
	}

	if r.Keyring != nil {
		v, err := r.Keyring()
		switch {
		case err == nil && v != "":
			return Target{Value: v, Source: SourceKeyring}, nil
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			logger.Debug("Keyring lookup failed", "error", err)
		}
	}

	return Target{Value: filepath.Join(r.ConfigDir, filepath.Base(constants.DefaultConfigPath)), Source: SourceDefault}, nil
}

func (r *Resolver) getenv(key string) string {
	if r.Getenv == nil {
		return ""
	}
	return r.Getenv(key)
}

// dotEnv reads the connection variable from ConfigDir/.env without
// touching the process environment. A missing file is not an error.
func (r *Resolver) dotEnv() (string, error) {
	path := filepath.Join(r.ConfigDir, constants.EnvFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(values[constants.ConnectionEnvVar]), nil
}

// MaskPassword hides the password of a PostgreSQL connection string.
func MaskPassword(connStr string) string {
	if storage.BackendFor(connStr) == storage.BackendPostgres {
		scheme, rest, _ := strings.Cut(connStr, "://")
		at := strings.LastIndex(rest, "@")
		if at == -1 {
			return connStr
		}
		if user, _, ok := strings.Cut(rest[:at], ":"); ok {
			return scheme + "://" + user + ":****" + rest[at:]
		}
		return connStr
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if k, _, ok := strings.Cut(f, "="); ok && strings.EqualFold(k, "password") {
			fields[i] = k + "=****"
		}
	}
	return strings.Join(fields, " ")
}
