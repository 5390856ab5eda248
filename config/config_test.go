package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig("")

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 8000, cfg.Web.Port)
	assert.Equal(t, "UTC", cfg.System.Location)
	assert.Empty(t, cfg.Catalog)
}

func TestLoadConfig_FromFile(t *testing.T) {
	content := `
system:
  location: America/Mexico_City
web:
  host: 127.0.0.1
  port: 9090
database:
  type: postgres
  host: db.internal
  port: 5433
  name: resto
  user: resto
  passwd: secret
catalog:
  - name: Pizza
    price: 10.99
  - name: Tacos
    price: 6.50
`
	path := filepath.Join(t.TempDir(), "comandero.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := LoadConfig(path)

	assert.Equal(t, "America/Mexico_City", cfg.System.Location)
	assert.Equal(t, "127.0.0.1:9090", cfg.WebListen())
	assert.Equal(t, "postgres", cfg.Database.Type)
	require.Len(t, cfg.Catalog, 2)
	assert.Equal(t, "Tacos", cfg.Catalog[1].Name)
	assert.Equal(t, 6.50, cfg.Catalog[1].Price)

	dsn := cfg.PostgresDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=resto")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("COMANDERO_DB_TYPE", "postgres")
	t.Setenv("COMANDERO_WEB_PORT", "8081")

	cfg := LoadConfig("")

	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 8081, cfg.Web.Port)
}

func TestSqliteDSN(t *testing.T) {
	cfg := LoadConfig("")
	cfg.Database.Name = ""
	assert.Equal(t, "comandero.db", cfg.SqliteDSN())

	cfg.Database.Name = "/tmp/resto.db"
	assert.Equal(t, "/tmp/resto.db", cfg.SqliteDSN())
}
