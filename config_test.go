package fetchx_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seb7887/fetchx"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "client.yaml"), []byte(content), 0o644)
	require.NoError(t, err)
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfigFile(t, `
base_url: https://api.example.com
timeout: 15s
credentials: include
`)

	cfg, err := fetchx.LoadConfig(dir, "client")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "include", cfg.Credentials)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := fetchx.LoadConfig(t.TempDir(), "client")
	assert.Error(t, err)
}

func TestConfig_Options(t *testing.T) {
	cfg := &fetchx.Config{
		BaseURL:     "https://api.example.com",
		Timeout:     5 * time.Second,
		Credentials: "omit",
	}

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestConfig_OptionsRejectsBadPolicy(t *testing.T) {
	cfg := &fetchx.Config{Credentials: "sometimes"}

	_, err := cfg.Options()
	assert.Error(t, err)
}

func TestParseCredentialsPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    fetchx.CredentialsPolicy
		wantErr bool
	}{
		{in: "omit", want: fetchx.CredentialsOmit},
		{in: "same-origin", want: fetchx.CredentialsSameOrigin},
		{in: "include", want: fetchx.CredentialsInclude},
		{in: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := fetchx.ParseCredentialsPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
