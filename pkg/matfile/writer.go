package matfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/net2mat/pkg/errors"
)

const (
	headerSize     = 128
	headerTextSize = 116
	version        = 0x0100
)

// DefaultHeader is the descriptive text placed at the start of every file
// unless [Options.Header] overrides it. It carries no timestamp, so the same
// input always produces the same bytes.
const DefaultHeader = "MATLAB 5.0 MAT-file, Platform: net2mat, Created by: net2mat"

// Options configures encoding.
type Options struct {
	// Header replaces DefaultHeader. It must be printable ASCII of at most
	// 116 bytes.
	Header string
}

func (o Options) header() (string, error) {
	h := o.Header
	if h == "" {
		h = DefaultHeader
	}
	if len(h) > headerTextSize {
		return "", errors.New(errors.ErrCodeArtifactCreation, "header text is %d bytes, at most %d allowed", len(h), headerTextSize)
	}
	for i := 0; i < len(h); i++ {
		if h[i] < 0x20 || h[i] > 0x7E {
			return "", errors.New(errors.ErrCodeArtifactCreation, "header text contains non-printable byte %#x", h[i])
		}
	}
	return h, nil
}

// Encode writes a complete file holding vars, in order, to w.
func Encode(w io.Writer, vars []*Variable, opts Options) error {
	h, err := opts.header()
	if err != nil {
		return err
	}

	var hdr [headerSize]byte
	copy(hdr[:], h)
	for i := len(h); i < headerTextSize; i++ {
		hdr[i] = ' '
	}
	// Bytes 116..123 are the subsystem data offset, left zero.
	binary.LittleEndian.PutUint16(hdr[124:], version)
	copy(hdr[126:], "IM")
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactCreation, err, "write header")
	}

	for _, v := range vars {
		if v == nil {
			return errors.New(errors.ErrCodeNullVariable, "nil variable")
		}
		if err := writeMatrix(w, v); err != nil {
			return err
		}
	}
	return nil
}

// writeMatrix writes v as one miMATRIX element.
func writeMatrix(w io.Writer, v *Variable) error {
	var body bytes.Buffer

	var flags [8]byte
	binary.LittleEndian.PutUint32(flags[0:], uint32(v.Class))
	writeElement(&body, miUINT32, flags[:])

	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[0:], uint32(v.Rows))
	binary.LittleEndian.PutUint32(dims[4:], uint32(v.Cols))
	writeElement(&body, miINT32, dims[:])

	writeElement(&body, miINT8, []byte(v.Name))
	writeElement(&body, v.typ, v.payload)

	if uint64(body.Len()) > math.MaxUint32 {
		return errors.New(errors.ErrCodeArtifactCreation, "variable %s: %d bytes exceed the level 5 element limit", v.Name, body.Len())
	}

	var tag [8]byte
	binary.LittleEndian.PutUint32(tag[0:], uint32(miMATRIX))
	binary.LittleEndian.PutUint32(tag[4:], uint32(body.Len()))
	if _, err := w.Write(tag[:]); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactCreation, err, "write variable %s", v.Name)
	}
	if _, err := body.WriteTo(w); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactCreation, err, "write variable %s", v.Name)
	}
	return nil
}

// writeElement appends a tagged data element padded to 8 bytes.
func writeElement(buf *bytes.Buffer, t dataType, data []byte) {
	var tag [8]byte
	binary.LittleEndian.PutUint32(tag[0:], uint32(t))
	binary.LittleEndian.PutUint32(tag[4:], uint32(len(data)))
	buf.Write(tag[:])
	buf.Write(data)
	if pad := padding(len(data)); pad > 0 {
		buf.Write(make([]byte, pad))
	}
}

func padding(n int) int {
	return (8 - n%8) % 8
}

// Marshal returns the encoded file as a byte slice.
func Marshal(vars []*Variable, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, vars, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes vars and stores them at path.
//
// The file is first written to a temporary file in the same directory and
// renamed into place only once everything has been written and synced. On
// any failure the temporary file is removed and path is left untouched.
func WriteFile(path string, vars []*Variable, opts Options) error {
	data, err := Marshal(vars, opts)
	if err != nil {
		return err
	}
	return WriteBytes(path, data)
}

// WriteBytes stores an already encoded file at path with the same
// temporary file and rename sequence as [WriteFile].
func WriteBytes(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, filepath.Ext(base))+"-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeArtifactCreation, err, "create %s", path)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(errors.ErrCodeArtifactCreation, err, "write %s", path)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(errors.ErrCodeArtifactCreation, err, "write %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(errors.ErrCodeArtifactCreation, err, "create %s", path)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
