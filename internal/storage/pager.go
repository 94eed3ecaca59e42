package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/tuannm99/raptordb/internal/alias/bx"
	"github.com/tuannm99/raptordb/internal/alias/util"
)

// Header is the fixed prefix of an index file.
//
//	[0:8)   root page id (int64, NoPage for an empty tree)
//	[8:12)  key codec tag
//	[12:16) B+Tree minimum degree
type Header struct {
	Root   int64
	Codec  uint32
	Degree uint32
}

func (h Header) encode() []byte {
	buf := make([]byte, HeaderSize)
	bx.PutI64At(buf, 0, h.Root)
	bx.PutU32At(buf, 8, h.Codec)
	bx.PutU32At(buf, 12, h.Degree)
	return buf
}

func decodeHeader(buf []byte) Header {
	return Header{
		Root:   bx.I64At(buf, 0),
		Codec:  bx.U32At(buf, 8),
		Degree: bx.U32At(buf, 12),
	}
}

// Pager allocates, reads and writes fixed-size pages of one index file.
// A page id is the byte offset of the page in the file. Every call opens and
// closes the file; nothing is cached.
type Pager struct {
	fs   afero.Fs
	path string
}

// OpenPager opens the index file at path, writing a fresh header when the
// file is missing or shorter than a header. An existing header must carry the
// same codec tag; its degree wins over the requested one.
func OpenPager(fs afero.Fs, path string, codec, degree uint32) (*Pager, Header, error) {
	p := &Pager{fs: fs, path: path}

	size, err := p.size()
	if err != nil {
		return nil, Header{}, err
	}
	if size < HeaderSize {
		h := Header{Root: NoPage, Codec: codec, Degree: degree}
		if err := p.writeHeader(h, true); err != nil {
			return nil, Header{}, err
		}
		slog.Debug("pager.init", "path", path, "codec", codec, "degree", degree)
		return p, h, nil
	}

	h, err := p.ReadHeader()
	if err != nil {
		return nil, Header{}, err
	}
	if h.Codec != codec {
		return nil, Header{}, fmt.Errorf("%w: %s has codec %d, want %d", ErrCodecMismatch, path, h.Codec, codec)
	}
	if h.Degree == 0 {
		h.Degree = degree
	}
	return p, h, nil
}

func (p *Pager) Path() string { return p.path }

func (p *Pager) size() (int64, error) {
	info, err := p.fs.Stat(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return info.Size(), nil
}

func (p *Pager) open(flag int) (afero.File, error) {
	return p.fs.OpenFile(p.path, flag, FileMode0644)
}

func (p *Pager) writeHeader(h Header, create bool) error {
	flag := os.O_RDWR
	if create {
		if err := p.fs.MkdirAll(dirOf(p.path), FileMode0755); err != nil {
			return err
		}
		flag |= os.O_CREATE | os.O_TRUNC
	}
	f, err := p.open(flag)
	if err != nil {
		return err
	}
	defer util.CloseFunc(f)

	_, err = f.WriteAt(h.encode(), 0)
	return err
}

// ReadHeader reads the header from disk.
func (p *Pager) ReadHeader() (Header, error) {
	f, err := p.open(os.O_RDONLY)
	if err != nil {
		return Header{}, err
	}
	defer util.CloseFunc(f)

	buf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	return decodeHeader(buf), nil
}

// SaveRoot rewrites the root slot of the header.
func (p *Pager) SaveRoot(root int64) error {
	f, err := p.open(os.O_RDWR)
	if err != nil {
		return err
	}
	defer util.CloseFunc(f)

	var b [8]byte
	bx.PutI64(b[:], root)
	_, err = f.WriteAt(b[:], 0)
	return err
}

// AllocatePage appends one zero-filled page and returns its id.
func (p *Pager) AllocatePage() (int64, error) {
	size, err := p.size()
	if err != nil {
		return 0, err
	}
	id := size
	if id < HeaderSize {
		id = HeaderSize
	}
	// a torn tail page is overwritten by the next full page
	if rem := (id - HeaderSize) % PageSize; rem != 0 {
		id -= rem
	}

	f, err := p.open(os.O_RDWR)
	if err != nil {
		return 0, err
	}
	defer util.CloseFunc(f)

	if _, err := f.WriteAt(make([]byte, PageSize), id); err != nil {
		return 0, err
	}
	slog.Debug("pager.allocate", "path", p.path, "pageID", id)
	return id, nil
}

// validPage reports whether id is a page boundary past the header.
func validPage(id int64) bool {
	return id >= HeaderSize && (id-HeaderSize)%PageSize == 0
}

// ReadPage returns the PageSize bytes of page id.
func (p *Pager) ReadPage(id int64) ([]byte, error) {
	if !validPage(id) {
		return nil, fmt.Errorf("%w: page %d", ErrInvalidPage, id)
	}

	f, err := p.open(os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer util.CloseFunc(f)

	buf := make([]byte, PageSize)
	n, err := f.ReadAt(buf, id)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n < PageSize {
		return nil, fmt.Errorf("%w: page %d past end of file", ErrInvalidPage, id)
	}
	return buf, nil
}

// WritePage writes data at page id. data longer than PageSize is refused
// before anything touches the file; shorter data is zero-padded.
func (p *Pager) WritePage(id int64, data []byte) error {
	if !validPage(id) {
		return fmt.Errorf("%w: attempt to write page %d off a page boundary", ErrInvalidPage, id)
	}
	if len(data) > PageSize {
		return fmt.Errorf("%w: page %d needs %d bytes, limit %d", ErrPageOverflow, id, len(data), PageSize)
	}

	buf := make([]byte, PageSize)
	copy(buf, data)

	f, err := p.open(os.O_RDWR)
	if err != nil {
		return err
	}
	defer util.CloseFunc(f)

	_, err = f.WriteAt(buf, id)
	return err
}

// PageCount returns how many pages follow the header.
func (p *Pager) PageCount() (int64, error) {
	size, err := p.size()
	if err != nil {
		return 0, err
	}
	if size <= HeaderSize {
		return 0, nil
	}
	return (size - HeaderSize) / PageSize, nil
}
