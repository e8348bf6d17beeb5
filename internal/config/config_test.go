package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
doc_store:
  type: memory
storage:
  type: memory-only
jwt:
  secret: test
  expire_hours: 2
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, DocStoreMemory, cfg.DocStore.Type)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 10*time.Second, cfg.DocStore.Timeout())
	assert.Equal(t, "¿Cómo calificaría su capacidad de liderazgo?", cfg.Dashboard.LeadershipQuestion)
	assert.Equal(t, dir, cfg.Path)
}

func TestLoadConfig_BinMapping(t *testing.T) {
	dir := writeConfig(t, `
doc_store:
  type: jsonbin
  master_key: key
  employees_bin: emp
  evaluations_bin: eval
  answers_bin: ans
  timeout_seconds: 3
storage:
  type: none
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	bins := cfg.DocStore.Bins()
	assert.Equal(t, "emp", bins["employees"])
	assert.Equal(t, "eval", bins["evaluations"])
	assert.Equal(t, "ans", bins["answers"])
	assert.Equal(t, 3*time.Second, cfg.DocStore.Timeout())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "release mode rejects short secret",
			cfg: Config{
				Server:   ServerConfig{Mode: "release"},
				JWT:      JWTConfig{Secret: "short"},
				DocStore: DocStoreConfig{Type: DocStoreMemory},
			},
			wantErr: true,
		},
		{
			name: "release mode requires master key for jsonbin",
			cfg: Config{
				Server:   ServerConfig{Mode: "release"},
				JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
				DocStore: DocStoreConfig{Type: DocStoreJSONBin},
			},
			wantErr: true,
		},
		{
			name: "debug mode allows missing master key",
			cfg: Config{
				Server:   ServerConfig{Mode: "debug"},
				DocStore: DocStoreConfig{Type: DocStoreJSONBin},
			},
		},
		{
			name: "unknown store type",
			cfg: Config{
				DocStore: DocStoreConfig{Type: "couch"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
