package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "catalogo.json"))

	cat := store.Load()

	assert.NotNil(t, cat)
	assert.Empty(t, cat)
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogo.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)

	assert.Empty(t, store.Load())
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogo.json")
	store := NewFileStore(path)
	cat := map[string]string{
		"PAGO ENDESA": "factura_proveedor",
		"CUOTA BANCO": "comision_bancaria",
	}

	require.NoError(t, store.Save(cat))

	assert.Equal(t, cat, store.Load())

	// No temp files are left behind after a successful save.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "catalogo.json", entries[0].Name())
}

func TestFileStore_SaveReplacesPrevious(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "catalogo.json"))
	require.NoError(t, store.Save(map[string]string{"A": "otro", "B": "otro"}))

	require.NoError(t, store.Save(map[string]string{"A": "impuesto_o_tasa"}))

	got := store.Load()
	assert.Equal(t, map[string]string{"A": "impuesto_o_tasa"}, got)
}
