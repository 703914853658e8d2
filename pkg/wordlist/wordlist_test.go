package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zansec/ftpzan/pkg/probe"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadLines(t *testing.T) {
	path := writeList(t, "admin\n# a comment\n\n  root  \nguest\n")
	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "root", "guest"}, lines)
}

func TestReadLinesMissingFile(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not open wordlist")
}

func TestParseCombos(t *testing.T) {
	combos := ParseCombos([]string{
		"admin:secret",
		"root:pass:with:colons",
		"no-separator",
		"ftp:",
	})
	assert.Equal(t, []probe.Combo{
		{Username: "admin", Password: "secret"},
		{Username: "root", Password: "pass:with:colons"},
		{Username: "ftp", Password: ""},
	}, combos)
}

func TestParsePortsCommaSeparated(t *testing.T) {
	ports, err := ParsePorts("21, 2121,990")
	require.NoError(t, err)
	assert.Equal(t, []int{21, 2121, 990}, ports)
}

func TestParsePortsFromFile(t *testing.T) {
	path := writeList(t, "21\n# ftps\n990\n")
	ports, err := ParsePorts(path)
	require.NoError(t, err)
	assert.Equal(t, []int{21, 990}, ports)
}

func TestParsePortsInvalid(t *testing.T) {
	for _, arg := range []string{"abc", "0", "70000", "21,-1", ","} {
		_, err := ParsePorts(arg)
		assert.Error(t, err, "arg %q", arg)
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, Dedupe(nil))
}

func TestDefaultsIncludeBlankPassword(t *testing.T) {
	assert.Contains(t, DefaultPasswords, "")
	assert.Contains(t, DefaultUsernames, "anonymous")
}
