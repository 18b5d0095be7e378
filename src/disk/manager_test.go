package disk

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackdeer1524/pagecache/src/pkg/common"
)

func TestWriteReadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := New(fs, "/data/pages.db")

	pageID := m.AllocatePage()

	out := make([]byte, PageSize)
	for i := range out {
		out[i] = byte(i % 251)
	}

	require.NoError(t, m.WritePage(pageID, out))

	in := make([]byte, PageSize)
	require.NoError(t, m.ReadPage(pageID, in))

	assert.Equal(t, out, in)
}

func TestReadUnwrittenPageIsZeroed(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := New(fs, "/data/pages.db")

	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = 0xFF
	}

	require.NoError(t, m.ReadPage(common.PageID(5), buf))

	for i, b := range buf {
		assert.Equalf(t, byte(0), b, "byte %d should be zeroed", i)
	}
}

func TestAllocatePageUnique(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := New(fs, "/data/pages.db")

	seen := make(map[common.PageID]bool)
	for i := 0; i < 100; i++ {
		id := m.AllocatePage()
		assert.False(t, seen[id], "AllocatePage returned a duplicate id")
		seen[id] = true
	}
}

func TestWritePageTooSmallBuffer(t *testing.T) {
	fs := afero.NewMemMapFs()
	m := New(fs, "/data/pages.db")

	err := m.WritePage(common.PageID(0), make([]byte, 10))
	assert.Error(t, err)
}

func TestOsFsBackedManager(t *testing.T) {
	fs := afero.NewOsFs()
	dir := t.TempDir()
	m := New(fs, dir+"/pages.db")

	pageID := m.AllocatePage()
	out := make([]byte, PageSize)
	copy(out, []byte("hello from disk"))

	require.NoError(t, m.WritePage(pageID, out))

	in := make([]byte, PageSize)
	require.NoError(t, m.ReadPage(pageID, in))
	assert.Equal(t, out, in)
}
