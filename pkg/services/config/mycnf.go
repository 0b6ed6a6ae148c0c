package config

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

const clientSection = "client"

// OptionFile holds the connection values of a MySQL option file.
type OptionFile struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

func LoadOptionFile(path string) (*OptionFile, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read option file %s: %w", path, err)
	}

	section, err := cfg.GetSection(clientSection)
	if err != nil {
		return nil, fmt.Errorf("section [%s] not found in %s", clientSection, path)
	}

	return &OptionFile{
		Host:     section.Key("host").String(),
		Port:     section.Key("port").String(),
		User:     section.Key("user").String(),
		Password: section.Key("password").String(),
		Database: section.Key("database").String(),
	}, nil
}

// applyDefaults registers the file values below the environment.
func (o *OptionFile) applyDefaults(v *viper.Viper) {
	defaults := map[string]string{
		"db.host":     o.Host,
		"db.port":     o.Port,
		"db.user":     o.User,
		"db.password": o.Password,
		"db.name":     o.Database,
	}
	for key, value := range defaults {
		if value != "" {
			v.SetDefault(key, value)
		}
	}
}
