package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/telkin/studio-bootstrap/internal/domain"
	"github.com/telkin/studio-bootstrap/internal/ports"
)

const (
	configName    = "config"
	configType    = "toml"
	scriptPathKey = "script.path"
	configDirName = ".studio-bootstrap"
	scriptFile    = "script.toml"
)

type fileSchema struct {
	Commands []string `toml:"commands"`
	Prompt   string   `toml:"prompt,omitempty"`
}

// Source loads the command script from a TOML file. A missing file falls
// back to the built-in install script, so the tool works with zero setup.
type Source struct {
	scriptPath string
}

var _ ports.ScriptSource = (*Source)(nil)

// NewSource resolves the script path from tool configuration, defaulting
// to ~/.studio-bootstrap/script.toml.
func NewSource(cfg *viper.Viper) (*Source, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, configDirName, scriptFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault(scriptPathKey, defaultPath)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	scriptPath := cfg.GetString(scriptPathKey)
	if scriptPath == "" {
		return nil, errors.New("script path is empty")
	}

	return &Source{scriptPath: scriptPath}, nil
}

// NewFileSource points at an explicit script file, which must exist.
func NewFileSource(path string) *Source {
	return &Source{scriptPath: path}
}

func (s *Source) Load(ctx context.Context) (domain.Script, error) {
	if err := ctx.Err(); err != nil {
		return domain.Script{}, err
	}

	data, err := os.ReadFile(s.scriptPath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultScript(), nil
		}
		return domain.Script{}, fmt.Errorf("%w: read script file %s: %v", domain.ErrConfiguration, s.scriptPath, err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Script{}, fmt.Errorf("%w: decode script file %s: %v", domain.ErrConfiguration, s.scriptPath, err)
	}

	return domain.NewScript(file.Commands, file.Prompt)
}
