package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	boards := c.Boards()
	require.Len(t, boards, 2)
	assert.Equal(t, "Cambridge", boards[0].Name)
	assert.Equal(t, "Edexcel", boards[1].Name)

	venue, err := c.DefaultVenue("cambridge")
	require.NoError(t, err)
	assert.Equal(t, "CN399", venue)

	venue, err = c.DefaultVenue("Edexcel")
	require.NoError(t, err)
	assert.Equal(t, "91829", venue)

	subject, err := c.Subject("Cambridge", "0580")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", subject.Name)

	subject, err = c.Subject("Edexcel", "wma11")
	require.NoError(t, err)
	assert.Equal(t, "Pure Mathematics 1", subject.Name)
}

func TestCatalogLookupErrors(t *testing.T) {
	c := Default()

	_, err := c.Board("AQA")
	assert.True(t, errors.Is(err, ErrUnknownBoard))

	_, err = c.Subject("Cambridge", "4MA1")
	assert.True(t, errors.Is(err, ErrUnknownSubject))
}

func TestLoadFallsBackWhenMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Len(t, c.Boards(), 2)

	c, err = Load("")
	require.NoError(t, err)
	assert.Len(t, c.Boards(), 2)
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := []byte(`boards:
  - name: OxfordAQA
    venue: "OX001"
    subjects:
      - {name: "Physics", code: "9203"}
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Boards(), 1)

	subject, err := c.Subject("oxfordaqa", "9203")
	require.NoError(t, err)
	assert.Equal(t, "Physics", subject.Name)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := Parse([]byte("boards: ["))
	assert.Error(t, err)

	_, err = Parse([]byte("boards: []"))
	assert.Error(t, err)

	_, err = Parse([]byte("boards:\n  - name: A\n  - name: a\n"))
	assert.Error(t, err)
}
