package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "DA", cfg.Devise)
	assert.Equal(t, 19.0, cfg.DefaultTVARate)
	assert.True(t, cfg.PDFQRCode)
	assert.Equal(t, 3, cfg.WorkerPoolSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_TVA_RATE", "9")
	t.Setenv("SOCIETE_NOM", "Meubles Atlas")
	t.Setenv("PDF_QRCODE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9.0, cfg.DefaultTVARate)
	assert.Equal(t, "Meubles Atlas", cfg.SocieteNom)
	assert.False(t, cfg.PDFQRCode)
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: " http://a.test , ,http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}
