package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrUnknownBoard is returned when a board name is not in the catalog.
var ErrUnknownBoard = errors.New("unknown exam board")

// ErrUnknownSubject is returned when a subject code is not offered by a board.
var ErrUnknownSubject = errors.New("unknown subject code")

// Subject is one examinable subject.
type Subject struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

// Board is an examination board with its centre code and subjects.
type Board struct {
	Name     string    `yaml:"name" json:"name"`
	Venue    string    `yaml:"venue" json:"venue"`
	Subjects []Subject `yaml:"subjects" json:"subjects"`
}

type yamlCatalog struct {
	Boards []Board `yaml:"boards"`
}

// Catalog is the read-only reference data for boards, venues and subjects.
type Catalog struct {
	boards []Board
	byName map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path. An empty path, or a path that does not
// exist, yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(rawData)
}

// Parse decodes a YAML catalog document.
func Parse(rawData []byte) (*Catalog, error) {
	var fileData yamlCatalog
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(fileData.Boards) == 0 {
		return nil, fmt.Errorf("parse catalog yaml: no boards defined")
	}

	c := &Catalog{byName: make(map[string]int, len(fileData.Boards))}
	for _, board := range fileData.Boards {
		key := normalize(board.Name)
		if key == "" {
			return nil, fmt.Errorf("parse catalog yaml: board without a name")
		}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("parse catalog yaml: duplicate board %q", board.Name)
		}
		c.byName[key] = len(c.boards)
		c.boards = append(c.boards, board)
	}
	return c, nil
}

// Boards returns every board in catalog order.
func (c *Catalog) Boards() []Board {
	return append([]Board(nil), c.boards...)
}

// Board looks up a board by name, ignoring case.
func (c *Catalog) Board(name string) (Board, error) {
	idx, ok := c.byName[normalize(name)]
	if !ok {
		return Board{}, fmt.Errorf("%w: %s", ErrUnknownBoard, name)
	}
	return c.boards[idx], nil
}

// Subject looks up a subject of board by its code.
func (c *Catalog) Subject(board, code string) (Subject, error) {
	b, err := c.Board(board)
	if err != nil {
		return Subject{}, err
	}
	for _, subject := range b.Subjects {
		if strings.EqualFold(subject.Code, strings.TrimSpace(code)) {
			return subject, nil
		}
	}
	return Subject{}, fmt.Errorf("%w: %s/%s", ErrUnknownSubject, b.Name, code)
}

// DefaultVenue returns the centre code used when no venue is entered.
func (c *Catalog) DefaultVenue(board string) (string, error) {
	b, err := c.Board(board)
	if err != nil {
		return "", err
	}
	return b.Venue, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
