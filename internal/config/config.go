package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig Anwendungskonfiguration
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Advisor AdvisorConfig `toml:"advisor"`
	Excel   ExcelConfig   `toml:"excel"`
}

// ServerConfig Serverkonfiguration
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig Datenverzeichnisse
type DataConfig struct {
	DataDir            string `toml:"data_dir"`
	AutoCreateCustomer bool   `toml:"auto_create_customer"`
}

// AdvisorConfig Konfiguration des optionalen Vorschlagsdienstes.
// Der Dienst ist rein beratend; Fehler oder Timeouts erreichen nie den
// Extraktionspfad.
type AdvisorConfig struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ExcelConfig Konfiguration des EKS-Exports
type ExcelConfig struct {
	TemplatePath string `toml:"template_path"`
}

// LoadConfigInfo Metainformationen des Ladevorgangs
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig Standardkonfiguration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20471,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:            "data",
			AutoCreateCustomer: true,
		},
		Advisor: AdvisorConfig{
			Enabled:        false,
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 15,
		},
		Excel: ExcelConfig{
			TemplatePath: "",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	serverAny, ok := raw["server"]
	if !ok {
		return false
	}
	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir Verzeichnis der ausführbaren Datei
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo lädt config.toml neben der ausführbaren Datei und
// liefert Metainformationen zum Ladevorgang
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
			applyEnvOverrides(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnvOverrides(config)
	return config, info, nil
}

// applyEnvOverrides Umgebungsvariablen überschreiben die Datei
// (API-Schlüssel sollen nicht in config.toml liegen müssen)
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("EKSFILLER_ADVISOR_API_KEY"); v != "" {
		config.Advisor.APIKey = v
	}
	if v := os.Getenv("EKSFILLER_ADVISOR_BASE_URL"); v != "" {
		config.Advisor.BaseURL = v
	}
	if v := os.Getenv("EKSFILLER_TEMPLATE_PATH"); v != "" {
		config.Excel.TemplatePath = v
	}
}

// LoadConfig lädt config.toml neben der ausführbaren Datei
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig schreibt die Konfiguration nach config.toml
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

// EnsureDataDir legt das Datenverzeichnis samt Unterverzeichnissen an
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}
