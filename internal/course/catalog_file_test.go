package course

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.toml")
	content := `
[[courses]]
id = "ingegneria-meccanica"
name = "Ingegneria Meccanica"
type = "Laurea"
url = "https://corsi.unibo.it/laurea/IngegneriaMeccanica/orario-lezioni/@@orario_reale_json"

[[courses]]
id = "matematica"
name = "Matematica"
type = "Laurea"
url = "https://corsi.unibo.it/laurea/matematica/orario-lezioni/@@orario_reale_json"
years = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	courses, err := LoadCatalogFile(path)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	assert.Equal(t, "ingegneria-meccanica", courses[0].ID)
	assert.Equal(t, 3, courses[0].Years, "unset years default to 3")
	assert.Equal(t, "matematica", courses[1].ID)
}

func TestLoadCatalogFile_MissingFileIsEmpty(t *testing.T) {
	courses, err := LoadCatalogFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.NoError(t, err)
	assert.Nil(t, courses)
}

func TestLoadCatalogFile_EmptyPathIsEmpty(t *testing.T) {
	courses, err := LoadCatalogFile("")
	assert.NoError(t, err)
	assert.Nil(t, courses)
}

func TestLoadCatalogFile_RejectsEntryWithoutID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.toml")
	content := `
[[courses]]
name = "Senza id"
url = "https://corsi.unibo.it/laurea/x/orario-lezioni/@@orario_reale_json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadCatalogFile(path)
	assert.Error(t, err)
}

func TestLoadCatalogFile_RejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))

	_, err := LoadCatalogFile(path)
	assert.Error(t, err)
}
