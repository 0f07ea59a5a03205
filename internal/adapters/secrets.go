package adapters

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/viper"

	"wpm/internal/ports"
)

const (
	secretsFileName  = "secrets.yaml"
	secretsEnvPrefix = "WPM_SECRET"
)

// ViperSecrets resolves secret properties from <workspace>/.wpm/secrets.yaml
// and WPM_SECRET_<KEY> environment variables; the environment wins.
type ViperSecrets struct {
	v *viper.Viper
}

func NewViperSecrets(workspace string) (*ViperSecrets, error) {
	v := viper.New()
	v.SetEnvPrefix(secretsEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(workspace, stateDirName, secretsFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read secrets file " + path).
				WithCause(err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stat secrets file " + path).
			WithCause(err)
	}
	return &ViperSecrets{v: v}, nil
}

// Query returns the keys it can resolve. Lookups are case-insensitive, as
// viper keys are.
func (s *ViperSecrets) Query(keys []string) (map[string]string, error) {
	out := map[string]string{}
	for _, key := range keys {
		if key == "" || !s.v.IsSet(key) {
			continue
		}
		out[key] = s.v.GetString(key)
	}
	return out, nil
}

var _ ports.SecretsPort = (*ViperSecrets)(nil)
