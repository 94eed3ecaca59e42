package storage

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newTestPager(t *testing.T) (*Pager, afero.Fs, string) {
	t.Helper()
	fs := afero.NewOsFs()
	path := filepath.Join(t.TempDir(), "users.bpt")
	p, h, err := OpenPager(fs, path, 1, 3)
	require.NoError(t, err)
	require.Equal(t, NoPage, h.Root)
	require.Equal(t, uint32(1), h.Codec)
	require.Equal(t, uint32(3), h.Degree)
	return p, fs, path
}

func TestPager_FreshHeader(t *testing.T) {
	p, fs, path := newTestPager(t)

	info, err := fs.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(HeaderSize), info.Size())

	h, err := p.ReadHeader()
	require.NoError(t, err)
	require.Equal(t, Header{Root: NoPage, Codec: 1, Degree: 3}, h)

	n, err := p.PageCount()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPager_AllocateReadWrite(t *testing.T) {
	p, _, _ := newTestPager(t)

	id1, err := p.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, int64(HeaderSize), id1)

	id2, err := p.AllocatePage()
	require.NoError(t, err)
	require.Equal(t, int64(HeaderSize+PageSize), id2)

	// freshly allocated pages are zero-filled
	buf, err := p.ReadPage(id2)
	require.NoError(t, err)
	require.Len(t, buf, PageSize)
	require.Equal(t, make([]byte, PageSize), buf)

	require.NoError(t, p.WritePage(id1, []byte("hello")))
	buf, err = p.ReadPage(id1)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), buf[:5])
	require.Equal(t, byte(0), buf[5])

	// neighbour untouched
	buf, err = p.ReadPage(id2)
	require.NoError(t, err)
	require.Equal(t, make([]byte, PageSize), buf)

	n, err := p.PageCount()
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}

func TestPager_InvalidPageAccess(t *testing.T) {
	p, _, _ := newTestPager(t)

	_, err := p.ReadPage(0)
	require.ErrorIs(t, err, ErrInvalidPage)

	err = p.WritePage(HeaderSize-1, []byte{1})
	require.ErrorIs(t, err, ErrInvalidPage)

	// past end of file
	_, err = p.ReadPage(HeaderSize + 10*PageSize)
	require.ErrorIs(t, err, ErrInvalidPage)
}

func TestPager_MisalignedPageRejected(t *testing.T) {
	p, _, _ := newTestPager(t)
	id, err := p.AllocatePage()
	require.NoError(t, err)
	_, err = p.AllocatePage()
	require.NoError(t, err)

	_, err = p.ReadPage(id + 1)
	require.ErrorIs(t, err, ErrInvalidPage)

	err = p.WritePage(id+PageSize/2, []byte{1})
	require.ErrorIs(t, err, ErrInvalidPage)

	// aligned ids still work
	_, err = p.ReadPage(id + PageSize)
	require.NoError(t, err)
}

func TestPager_WriteOverflowRejected(t *testing.T) {
	p, _, _ := newTestPager(t)
	id, err := p.AllocatePage()
	require.NoError(t, err)

	err = p.WritePage(id, make([]byte, PageSize+1))
	require.ErrorIs(t, err, ErrPageOverflow)

	require.NoError(t, p.WritePage(id, make([]byte, PageSize)))
}

func TestPager_SaveRootAndReopen(t *testing.T) {
	p, fs, path := newTestPager(t)

	id, err := p.AllocatePage()
	require.NoError(t, err)
	require.NoError(t, p.SaveRoot(id))

	// degree in the file wins over the requested one
	_, h, err := OpenPager(fs, path, 1, 50)
	require.NoError(t, err)
	require.Equal(t, id, h.Root)
	require.Equal(t, uint32(3), h.Degree)

	_, _, err = OpenPager(fs, path, 2, 3)
	require.ErrorIs(t, err, ErrCodecMismatch)
}

func TestPager_MemFS(t *testing.T) {
	fs := afero.NewMemMapFs()
	p, _, err := OpenPager(fs, "/db/x/t.bpt64", 2, 4)
	require.NoError(t, err)

	id, err := p.AllocatePage()
	require.NoError(t, err)
	require.NoError(t, p.WritePage(id, []byte{9, 9}))

	buf, err := p.ReadPage(id)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 0}, buf[:3])
}
