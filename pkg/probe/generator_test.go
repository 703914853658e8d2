package probe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(spec *BruteSpec) []Descriptor {
	var out []Descriptor
	for d := range spec.Stream() {
		out = append(out, d)
	}
	return out
}

func TestBruteSpecOrdering(t *testing.T) {
	spec := &BruteSpec{
		Host:      "ftp.example.test",
		Protocol:  FTP,
		Usernames: []string{"admin", "root"},
		Passwords: []string{"x", "y"},
		Ports:     []int{21, 2121},
	}
	require.Equal(t, 8, spec.Count())

	got := collect(spec)
	require.Len(t, got, 8)

	// ports outer, usernames middle, passwords inner
	expected := []struct {
		port int
		user string
		pass string
	}{
		{21, "admin", "x"}, {21, "admin", "y"},
		{21, "root", "x"}, {21, "root", "y"},
		{2121, "admin", "x"}, {2121, "admin", "y"},
		{2121, "root", "x"}, {2121, "root", "y"},
	}
	for i, want := range expected {
		assert.Equal(t, want.port, got[i].Port, "index %d", i)
		assert.Equal(t, want.user, got[i].Username, "index %d", i)
		assert.Equal(t, want.pass, got[i].Password, "index %d", i)
	}

	seen := map[string]bool{}
	for _, d := range got {
		key := fmt.Sprintf("%d/%s/%s", d.Port, d.Username, d.Password)
		assert.False(t, seen[key], "duplicate descriptor %s", key)
		seen[key] = true
	}
}

func TestBruteSpecComboMode(t *testing.T) {
	spec := &BruteSpec{
		Host:     "ftp.example.test",
		Protocol: FTP,
		// present but overridden by combos
		Usernames: []string{"ignored"},
		Passwords: []string{"ignored"},
		Combos: []Combo{
			{Username: "alice", Password: "wonder"},
			{Username: "bob", Password: "builder"},
		},
		Ports: []int{21, 2121},
	}
	require.Equal(t, 4, spec.Count())

	got := collect(spec)
	require.Len(t, got, 4)
	// combo pairs stay fixed tuples, crossed only with ports
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "wonder", got[0].Password)
	assert.Equal(t, "bob", got[1].Username)
	assert.Equal(t, "builder", got[1].Password)
	assert.Equal(t, 21, got[0].Port)
	assert.Equal(t, 2121, got[2].Port)
	for _, d := range got {
		assert.NotEqual(t, "alice:builder", d.Username+":"+d.Password)
	}
}

func TestBruteSpecEmpty(t *testing.T) {
	spec := &BruteSpec{Host: "h", Ports: []int{21}}
	assert.Equal(t, 0, spec.Count())
	assert.Empty(t, collect(spec))
}

func TestBruteSpecCheckPathPropagates(t *testing.T) {
	spec := &BruteSpec{
		Host:      "h",
		Usernames: []string{"u"},
		Passwords: []string{"p"},
		Ports:     []int{21},
		CheckPath: "/data",
	}
	got := collect(spec)
	require.Len(t, got, 1)
	assert.Equal(t, "/data", got[0].CheckPath)
}

func TestStreamList(t *testing.T) {
	list := []Descriptor{
		{Endpoint: Endpoint{Host: "a", Port: 21}},
		{Endpoint: Endpoint{Host: "b", Port: 22, Protocol: SFTP}},
	}
	var got []Descriptor
	for d := range StreamList(list) {
		got = append(got, d)
	}
	assert.Equal(t, list, got)
}

func TestBruteSpecTwoByOne(t *testing.T) {
	// two usernames, one password, one port: exactly two descriptors and
	// the total is known before anything runs
	spec := &BruteSpec{
		Host:      "ftp.example.test",
		Protocol:  FTP,
		Usernames: []string{"admin", "root"},
		Passwords: []string{"1234"},
		Ports:     []int{21},
	}
	require.Equal(t, 2, spec.Count())
	got := collect(spec)
	require.Len(t, got, 2)
	assert.Equal(t, "admin", got[0].Username)
	assert.Equal(t, "root", got[1].Username)
}
