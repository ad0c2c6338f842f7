// Package config loads app settings from config.toml next to the executable,
// with environment variable overrides for local runs.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the full application configuration.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Excel  ExcelConfig  `toml:"excel"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig locates the app data directory.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ExcelConfig configures the workbook round trip.
type ExcelConfig struct {
	// WorkbookPath pins the spreadsheet used for import and sync. Empty
	// means the most recently uploaded one is used.
	WorkbookPath string `toml:"workbook_path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20270,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Excel: ExcelConfig{
			WorkbookPath: "",
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigInfo carries metadata about how the configuration was loaded.
type LoadConfigInfo struct {
	FileExists bool
}

// LoadConfigWithInfo reads config.toml from the executable's directory,
// falling back to defaults when the file is absent, then applies environment
// overrides. The returned info reports whether the file was found.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}
	info.FileExists = true

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// LoadConfig reads config.toml without the load metadata.
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// applyEnv lets SALESASSOCIATE_* variables override the file.
func applyEnv(config *AppConfig) {
	if v := os.Getenv("SALESASSOCIATE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("SALESASSOCIATE_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("SALESASSOCIATE_WORKBOOK"); v != "" {
		config.Excel.WorkbookPath = v
	}
}

// SaveConfig writes the configuration back to config.toml.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// ResolveDataDir returns the absolute data directory. A relative setting is
// resolved against the executable's directory.
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// ResolveWorkbookPath returns the absolute pinned workbook path, or the
// empty string when no workbook is pinned. A relative setting is resolved
// against the executable's directory.
func ResolveWorkbookPath(config *AppConfig) string {
	path := config.Excel.WorkbookPath
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, path)
}

// DatabasePath returns the sqlite file path under the data directory.
func DatabasePath(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config), "salesassociate.db")
}
