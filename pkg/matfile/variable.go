package matfile

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/strtable"
)

// Class is the MATLAB array class of a variable.
type Class uint8

// Array classes supported by this package.
const (
	ClassChar   Class = 4
	ClassDouble Class = 6
	ClassInt32  Class = 12
)

// String returns the MATLAB name of the class.
func (c Class) String() string {
	switch c {
	case ClassChar:
		return "char"
	case ClassDouble:
		return "double"
	case ClassInt32:
		return "int32"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// dataType identifies the storage type of a data element.
type dataType uint32

const (
	miINT8       dataType = 1
	miUINT8      dataType = 2
	miINT16      dataType = 3
	miUINT16     dataType = 4
	miINT32      dataType = 5
	miUINT32     dataType = 6
	miSINGLE     dataType = 7
	miDOUBLE     dataType = 9
	miINT64      dataType = 12
	miUINT64     dataType = 13
	miMATRIX     dataType = 14
	miCOMPRESSED dataType = 15
	miUTF8       dataType = 16
)

// width returns the size in bytes of one value of t, or 0 if t is not a
// numeric storage type.
func (t dataType) width() int {
	switch t {
	case miINT8, miUINT8, miUTF8:
		return 1
	case miINT16, miUINT16:
		return 2
	case miINT32, miUINT32, miSINGLE:
		return 4
	case miDOUBLE, miINT64, miUINT64:
		return 8
	default:
		return 0
	}
}

// Variable is a named two-dimensional array ready to be stored.
// Use [Int32], [Float64] or [Char] to create one.
type Variable struct {
	Name  string
	Class Class
	Rows  int
	Cols  int

	typ     dataType         // storage type of payload
	order   binary.ByteOrder // byte order of payload
	payload []byte           // encoded column-major values
}

// Len returns the number of elements, Rows*Cols.
func (v *Variable) Len() int { return v.Rows * v.Cols }

// NewVariable wraps column-major data as a variable of the given class.
//
// data must be []int32 for ClassInt32, []float64 for ClassDouble and []byte
// for ClassChar, with exactly rows*cols elements. Any other input yields an
// error with code [errors.ErrCodeNullVariable] and a nil variable; callers
// must check the error before using the result.
func NewVariable(name string, class Class, rows, cols int, data any) (*Variable, error) {
	if err := errors.ValidateVariableName(name); err != nil {
		return nil, err
	}
	if rows < 0 || cols < 0 {
		return nil, errors.New(errors.ErrCodeNullVariable, "variable %s: negative dimensions %dx%d", name, rows, cols)
	}
	if data == nil {
		return nil, errors.New(errors.ErrCodeNullVariable, "variable %s: no data", name)
	}

	v := &Variable{Name: name, Class: class, Rows: rows, Cols: cols, order: binary.LittleEndian}
	n := -1
	switch class {
	case ClassInt32:
		d, ok := data.([]int32)
		if !ok {
			break
		}
		n = len(d)
		v.typ = miINT32
		v.payload = make([]byte, 4*len(d))
		for i, x := range d {
			binary.LittleEndian.PutUint32(v.payload[4*i:], uint32(x))
		}
	case ClassDouble:
		d, ok := data.([]float64)
		if !ok {
			break
		}
		n = len(d)
		v.typ = miDOUBLE
		v.payload = make([]byte, 8*len(d))
		for i, x := range d {
			binary.LittleEndian.PutUint64(v.payload[8*i:], math.Float64bits(x))
		}
	case ClassChar:
		d, ok := data.([]byte)
		if !ok {
			break
		}
		n = len(d)
		v.typ = miUINT8
		v.payload = append([]byte(nil), d...)
	default:
		return nil, errors.New(errors.ErrCodeNullVariable, "variable %s: unsupported class %s", name, class)
	}

	if n < 0 {
		return nil, errors.New(errors.ErrCodeNullVariable, "variable %s: %T is not valid data for class %s", name, data, class)
	}
	if n != rows*cols {
		return nil, errors.New(errors.ErrCodeNullVariable, "variable %s: %d elements do not fill a %dx%d array", name, n, rows, cols)
	}
	return v, nil
}

// Int32 creates an int32 variable from column-major data.
func Int32(name string, rows, cols int, data []int32) (*Variable, error) {
	return NewVariable(name, ClassInt32, rows, cols, data)
}

// Float64 creates a double variable from column-major data.
func Float64(name string, rows, cols int, data []float64) (*Variable, error) {
	return NewVariable(name, ClassDouble, rows, cols, data)
}

// Char creates a char variable from column-major bytes.
func Char(name string, rows, cols int, data []byte) (*Variable, error) {
	return NewVariable(name, ClassChar, rows, cols, data)
}

// Float64s decodes the variable's values as float64 in column-major order.
// Any numeric storage type is accepted.
func (v *Variable) Float64s() ([]float64, error) {
	w := v.typ.width()
	if w == 0 || len(v.payload)%w != 0 {
		return nil, fmt.Errorf("variable %s: cannot decode storage type %d", v.Name, v.typ)
	}
	out := make([]float64, len(v.payload)/w)
	for i := range out {
		b := v.payload[i*w:]
		switch v.typ {
		case miINT8:
			out[i] = float64(int8(b[0]))
		case miUINT8, miUTF8:
			out[i] = float64(b[0])
		case miINT16:
			out[i] = float64(int16(v.order.Uint16(b)))
		case miUINT16:
			out[i] = float64(v.order.Uint16(b))
		case miINT32:
			out[i] = float64(int32(v.order.Uint32(b)))
		case miUINT32:
			out[i] = float64(v.order.Uint32(b))
		case miSINGLE:
			out[i] = float64(math.Float32frombits(v.order.Uint32(b)))
		case miDOUBLE:
			out[i] = math.Float64frombits(v.order.Uint64(b))
		case miINT64:
			out[i] = float64(int64(v.order.Uint64(b)))
		case miUINT64:
			out[i] = float64(v.order.Uint64(b))
		}
	}
	return out, nil
}

// Int32s decodes the variable's values as int32 in column-major order.
func (v *Variable) Int32s() ([]int32, error) {
	if v.typ == miINT32 {
		out := make([]int32, len(v.payload)/4)
		for i := range out {
			out[i] = int32(v.order.Uint32(v.payload[4*i:]))
		}
		return out, nil
	}
	f, err := v.Float64s()
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(f))
	for i, x := range f {
		out[i] = int32(x)
	}
	return out, nil
}

// Bytes returns the raw column-major characters of a char variable stored
// with one byte per character.
func (v *Variable) Bytes() ([]byte, error) {
	switch v.typ {
	case miUTF8, miUINT8, miINT8:
		return v.payload, nil
	case miUINT16:
		out := make([]byte, len(v.payload)/2)
		for i := range out {
			c := v.order.Uint16(v.payload[2*i:])
			if c > 0xFF {
				return nil, fmt.Errorf("variable %s: character %#x does not fit in a byte", v.Name, c)
			}
			out[i] = byte(c)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("variable %s: storage type %d is not character data", v.Name, v.typ)
	}
}

// Strings decodes a char variable row by row, trailing NULs removed.
func (v *Variable) Strings() ([]string, error) {
	b, err := v.Bytes()
	if err != nil {
		return nil, err
	}
	return strtable.Decode(b, v.Rows, v.Cols)
}
