package matfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/net2mat/pkg/errors"
)

// File is a decoded MAT-file.
type File struct {
	Header    string      // descriptive text, trailing blanks removed
	Variables []*Variable // in file order
}

// Lookup returns the variable called name.
func (f *File) Lookup(name string) (*Variable, bool) {
	for _, v := range f.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// Names returns the variable names in file order.
func (f *File) Names() []string {
	names := make([]string, len(f.Variables))
	for i, v := range f.Variables {
		names[i] = v.Name
	}
	return names
}

// ReadFile decodes the MAT-file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDocumentParse, err, "open %s", path)
	}
	f, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return f, nil
}

// Read decodes a MAT-file from r.
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDocumentParse, err, "read MAT-file")
	}
	return Unmarshal(data)
}

// Unmarshal decodes a MAT-file held in memory.
//
// Top-level elements other than numeric, real, two-dimensional arrays of the
// supported classes are skipped.
func Unmarshal(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, errors.New(errors.ErrCodeDocumentParse, "file is %d bytes, shorter than the %d byte header", len(data), headerSize)
	}

	var order binary.ByteOrder
	switch string(data[126:128]) {
	case "IM":
		order = binary.LittleEndian
	case "MI":
		order = binary.BigEndian
	default:
		return nil, errors.New(errors.ErrCodeDocumentParse, "not a level 5 MAT-file: bad endian indicator %q", data[126:128])
	}
	if v := order.Uint16(data[124:]); v != version {
		return nil, errors.New(errors.ErrCodeDocumentParse, "unsupported MAT-file version %#x", v)
	}

	f := &File{Header: strings.TrimRight(string(data[:headerTextSize]), " \x00")}
	d := decoder{order: order, buf: data[headerSize:]}
	for !d.done() {
		el, err := d.next()
		if err != nil {
			return nil, err
		}
		switch el.typ {
		case miMATRIX:
			v, err := decodeMatrix(order, el.data)
			if err != nil {
				return nil, err
			}
			if v != nil {
				f.Variables = append(f.Variables, v)
			}
		case miCOMPRESSED:
			return nil, errors.New(errors.ErrCodeDocumentParse, "compressed variables are not supported")
		}
	}
	return f, nil
}

type element struct {
	typ  dataType
	data []byte
}

// decoder walks a sequence of tagged data elements.
type decoder struct {
	order binary.ByteOrder
	buf   []byte
	off   int
}

func (d *decoder) done() bool { return d.off >= len(d.buf) }

// next reads one element in either the regular or the small format.
func (d *decoder) next() (element, error) {
	if len(d.buf)-d.off < 8 {
		return element{}, errors.New(errors.ErrCodeDocumentParse, "truncated data element tag at offset %d", headerSize+d.off)
	}
	first := d.order.Uint32(d.buf[d.off:])

	// Small data element: size in the upper 16 bits, data in the tag itself.
	if size := first >> 16; size != 0 {
		if size > 4 {
			return element{}, errors.New(errors.ErrCodeDocumentParse, "small data element of %d bytes at offset %d", size, headerSize+d.off)
		}
		el := element{typ: dataType(first & 0xFFFF), data: d.buf[d.off+4 : d.off+4+int(size)]}
		d.off += 8
		return el, nil
	}

	n := int(d.order.Uint32(d.buf[d.off+4:]))
	start := d.off + 8
	if n < 0 || start+n > len(d.buf) {
		return element{}, errors.New(errors.ErrCodeDocumentParse, "data element of %d bytes at offset %d runs past end of file", n, headerSize+d.off)
	}
	el := element{typ: dataType(first), data: d.buf[start : start+n]}
	d.off = start + n
	// Compressed elements are not padded.
	if el.typ != miCOMPRESSED {
		d.off += padding(n)
	}
	return el, nil
}

// decodeMatrix decodes the body of an miMATRIX element. It returns a nil
// variable for arrays this package does not model.
func decodeMatrix(order binary.ByteOrder, body []byte) (*Variable, error) {
	if len(body) == 0 {
		return nil, nil
	}
	d := decoder{order: order, buf: body}

	flags, err := d.expect(miUINT32, "array flags")
	if err != nil {
		return nil, err
	}
	if len(flags.data) < 8 {
		return nil, errors.New(errors.ErrCodeDocumentParse, "array flags are %d bytes", len(flags.data))
	}
	word := order.Uint32(flags.data)
	class := Class(word & 0xFF)
	complexFlag := word&0x0800 != 0

	dims, err := d.expect(miINT32, "dimensions")
	if err != nil {
		return nil, err
	}
	if len(dims.data)%4 != 0 {
		return nil, errors.New(errors.ErrCodeDocumentParse, "dimensions are %d bytes", len(dims.data))
	}

	name, err := d.expect(miINT8, "array name")
	if err != nil {
		return nil, err
	}

	if len(dims.data) != 8 || complexFlag {
		return nil, nil
	}
	switch class {
	case ClassChar, ClassDouble, ClassInt32:
	default:
		return nil, nil
	}

	rows := int(int32(order.Uint32(dims.data[0:])))
	cols := int(int32(order.Uint32(dims.data[4:])))
	if rows < 0 || cols < 0 {
		return nil, errors.New(errors.ErrCodeDocumentParse, "variable %q has negative dimensions %d x %d",
			bytes.TrimRight(name.data, "\x00"), rows, cols)
	}
	v := &Variable{
		Name:  string(bytes.TrimRight(name.data, "\x00")),
		Class: class,
		Rows:  rows,
		Cols:  cols,
		order: order,
	}

	if d.done() {
		if rows*cols != 0 {
			return nil, errors.New(errors.ErrCodeDocumentParse, "variable %s: missing real part", v.Name)
		}
		v.typ = defaultType(class)
		return v, nil
	}
	part, err := d.next()
	if err != nil {
		return nil, err
	}
	w := part.typ.width()
	if w == 0 {
		return nil, errors.New(errors.ErrCodeDocumentParse, "variable %s: unsupported storage type %d", v.Name, part.typ)
	}
	if len(part.data) != w*rows*cols {
		return nil, errors.New(errors.ErrCodeDocumentParse, "variable %s: %d bytes of data for a %dx%d array", v.Name, len(part.data), rows, cols)
	}
	v.typ = part.typ
	v.payload = part.data
	return v, nil
}

func (d *decoder) expect(t dataType, what string) (element, error) {
	if d.done() {
		return element{}, errors.New(errors.ErrCodeDocumentParse, "missing %s", what)
	}
	el, err := d.next()
	if err != nil {
		return element{}, err
	}
	if el.typ != t {
		return element{}, errors.New(errors.ErrCodeDocumentParse, "%s stored as type %d, want %d", what, el.typ, t)
	}
	return el, nil
}

func defaultType(c Class) dataType {
	switch c {
	case ClassChar:
		return miUINT8
	case ClassInt32:
		return miINT32
	default:
		return miDOUBLE
	}
}
