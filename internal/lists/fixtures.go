package lists

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"pest-erp/pkg/listing"
)

//go:embed fixtures/*.yaml
var fixturesFS embed.FS

// Fixture - YAML-файл со строками таблицы.
type Fixture struct {
	Table string        `yaml:"table"`
	Rows  []listing.Row `yaml:"rows"`
}

// DecodeFixture читает фикстуру и проверяет, что у каждой строки есть id.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("разбор фикстуры: %w", err)
	}
	seen := make(map[string]bool, len(f.Rows))
	for i, row := range f.Rows {
		id, ok := row.ID()
		if !ok {
			return nil, fmt.Errorf("фикстура %q: строка %d без id", f.Table, i+1)
		}
		key := listing.FormatValue(id)
		if seen[key] {
			return nil, fmt.Errorf("фикстура %q: повторный id %s", f.Table, key)
		}
		seen[key] = true
	}
	return &f, nil
}

// LoadFixtureFile - фикстура с диска (для listctl).
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeFixture(file)
}

// FixtureStore отдаёт встроенные фикстуры по имени таблицы, разбирая каждую один раз.
type FixtureStore struct {
	fsys  fs.FS
	mu    sync.Mutex
	cache map[string][]listing.Row
}

func NewFixtureStore() *FixtureStore {
	return NewFixtureStoreFS(fixturesFS, "fixtures")
}

func NewFixtureStoreFS(fsys fs.FS, dir string) *FixtureStore {
	if dir != "" && dir != "." {
		if sub, err := fs.Sub(fsys, dir); err == nil {
			fsys = sub
		}
	}
	return &FixtureStore{fsys: fsys, cache: make(map[string][]listing.Row)}
}

// Rows возвращает копию строк таблицы.
func (s *FixtureStore) Rows(table string) ([]listing.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.cache[table]
	if !ok {
		file, err := s.fsys.Open(table + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("фикстура %q: %w", table, err)
		}
		defer file.Close()
		f, err := DecodeFixture(file)
		if err != nil {
			return nil, err
		}
		rows = f.Rows
		s.cache[table] = rows
	}

	out := make([]listing.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out, nil
}

// Tables - имена всех встроенных фикстур.
func (s *FixtureStore) Tables() ([]string, error) {
	matches, err := fs.Glob(s.fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m[:len(m)-len(".yaml")]
	}
	return out, nil
}
