// conf/utils.go various util functions for configuration package
package conf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tuniweather/weatherapp/internal/errors"
)

const (
	appDirName  = "weatherapp"
	dataDirName = "weatherData"
)

// GetDefaultConfigPaths returns the directories searched for config.yaml, in order:
// the working directory and the per-user config directory.
// If a config.yaml exists in one of them, only that directory is returned.
func GetDefaultConfigPaths() ([]string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get_user_config_dir").
			Build()
	}

	configPaths := []string{
		".",
		filepath.Join(userConfigDir, appDirName),
	}

	for _, path := range configPaths {
		if _, err := os.Stat(filepath.Join(path, "config.yaml")); err == nil {
			return []string{path}, nil
		}
	}

	return configPaths, nil
}

// FindConfigFile locates an existing configuration file.
func FindConfigFile() (string, error) {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "find_config_paths").
			Build()
	}

	for _, path := range configPaths {
		configFilePath := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFilePath); err == nil {
			return configFilePath, nil
		}
	}

	return "", errors.Newf("config file not found").
		Category(errors.CategoryNotFound).
		Context("operation", "find_config_file").
		Build()
}

// UserConfigFilePath is where `config init` writes a new config file.
func UserConfigFilePath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get_user_config_dir").
			Build()
	}
	return filepath.Join(userConfigDir, appDirName, "config.yaml"), nil
}

// DefaultDataDir returns <user config dir>/weatherapp/weatherData.
func DefaultDataDir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get_user_config_dir").
			Build()
	}
	return filepath.Join(userConfigDir, appDirName, dataDirName), nil
}

// moveFile copies src to dst and removes src. Used when rename crosses devices.
func moveFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error creating destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("error copying file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("error closing destination file: %w", err)
	}

	in.Close()
	return os.Remove(src)
}
