package garmindb

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ConnectConfig mirrors the GarminConnectConfig.json format consumed by the
// garmindb collector. The format is owned by the collector; field names must
// not change.
type ConnectConfig struct {
	DB           DBConfig          `json:"db"`
	Garmin       GarminConfig      `json:"garmin"`
	Credentials  CredentialsConfig `json:"credentials"`
	Data         DataConfig        `json:"data"`
	Directories  DirectoriesConfig `json:"directories"`
	EnabledStats EnabledStats      `json:"enabled_stats"`
}

type DBConfig struct {
	Type string `json:"type"`
}

type GarminConfig struct {
	Domain string `json:"domain"`
}

type CredentialsConfig struct {
	User           string  `json:"user"`
	SecurePassword bool    `json:"secure_password"`
	Password       string  `json:"password"`
	PasswordFile   *string `json:"password_file"`
}

type DataConfig struct {
	DownloadLatestActivities int `json:"download_latest_activities"`
	DownloadAllActivities    int `json:"download_all_activities"`
}

type DirectoriesConfig struct {
	RelativeToHome bool   `json:"relative_to_home"`
	BaseDir        string `json:"base_dir"`
}

type EnabledStats struct {
	Monitoring bool `json:"monitoring"`
	Steps      bool `json:"steps"`
	Itime      bool `json:"itime"`
	Sleep      bool `json:"sleep"`
	RHR        bool `json:"rhr"`
	Weight     bool `json:"weight"`
	Activities bool `json:"activities"`
}

// NewConnectConfig builds the default per-user collector configuration with
// every data category enabled.
func NewConnectConfig(domain, email, password, baseDir string) *ConnectConfig {
	return &ConnectConfig{
		DB:     DBConfig{Type: "sqlite"},
		Garmin: GarminConfig{Domain: domain},
		Credentials: CredentialsConfig{
			User:           email,
			SecurePassword: false,
			Password:       password,
			PasswordFile:   nil,
		},
		Data: DataConfig{
			DownloadLatestActivities: 25,
			DownloadAllActivities:    1000,
		},
		Directories: DirectoriesConfig{
			RelativeToHome: false,
			BaseDir:        baseDir,
		},
		EnabledStats: EnabledStats{
			Monitoring: true,
			Steps:      true,
			Itime:      true,
			Sleep:      true,
			RHR:        true,
			Weight:     true,
			Activities: true,
		},
	}
}

// Write persists the configuration as GarminConnectConfig.json inside
// configDir, creating the directory if needed, and returns the directory —
// the collector's -f flag takes the directory holding the file, not the
// file itself. The file holds plaintext credentials, so it is written with
// owner-only permissions.
func (c *ConnectConfig) Write(configDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, "GarminConnectConfig.json")
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return "", err
	}
	return configDir, nil
}
