package course

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type catalogFile struct {
	Courses []Course `toml:"courses"`
}

// LoadCatalogFile reads extra course definitions from a TOML file:
//
//	[[courses]]
//	id = "ingegneria-meccanica"
//	name = "Ingegneria Meccanica"
//	type = "Laurea"
//	url = "https://corsi.unibo.it/laurea/IngegneriaMeccanica/orario-lezioni/@@orario_reale_json"
//	curricula = ""
//	years = 3
//
// A missing file is not an error; it simply contributes no courses.
func LoadCatalogFile(path string) ([]Course, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading course catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing course catalog %s: %w", path, err)
	}

	for i := range file.Courses {
		if file.Courses[i].ID == "" {
			return nil, fmt.Errorf("course catalog %s: entry %d has no id", path, i)
		}
		if file.Courses[i].Years == 0 {
			file.Courses[i].Years = 3
		}
	}

	return file.Courses, nil
}
