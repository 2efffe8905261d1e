package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Provider resolves credential values by key. Source adapters receive one
// explicitly instead of reading the process environment themselves, which
// keeps them testable.
type Provider interface {
	Get(key string) string
}

// Env is a Provider backed by the process environment.
type Env struct{}

// NewEnv creates an environment-backed provider. When dotenv points to an
// existing file its values are loaded first without overriding variables
// already present in the environment.
func NewEnv(dotenv string, logger *zap.Logger) *Env {
	dotenv = strings.TrimSpace(dotenv)
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil {
			if !os.IsNotExist(err) && logger != nil {
				logger.Warn("loading dotenv file", zap.String("path", dotenv), zap.Error(err))
			}
		} else if logger != nil {
			logger.Debug("loaded credentials from dotenv file", zap.String("path", dotenv))
		}
	}

	return &Env{}
}

func (e *Env) Get(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Static is a fixed-map Provider for tests.
type Static map[string]string

func (s Static) Get(key string) string {
	return strings.TrimSpace(s[key])
}

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or flags.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over Value.
	File string
}

// Load returns the resolved secret value from the provided source. When File is
// set it takes precedence over Value. The returned secret is always trimmed. An
// error is returned when neither File nor Value contain a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		src.File = file
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
