package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SaveEndpoint stores the endpoint of env in the config document at path and
// makes env the current one. Other keys of the document are kept.
func SaveEndpoint(path, env, endpoint string) error {
	if env == "" {
		env = DefaultEnv
	}

	v, err := readDocument(path)
	if err != nil {
		return err
	}

	v.Set("env", env)
	v.Set(env+".endpoint", endpoint)

	return v.WriteConfigAs(path)
}

// Current returns the env and endpoint stored in the document at path.
func Current(path string) (string, string, error) {
	v, err := readDocument(path)
	if err != nil {
		return "", "", err
	}

	env := v.GetString("env")
	if env == "" {
		env = DefaultEnv
	}

	return env, v.GetString(env + ".endpoint"), nil
}

// Reset removes the document at path.
func Reset(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func readDocument(path string) (*viper.Viper, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yml")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return v, nil
}
