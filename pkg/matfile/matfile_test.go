package matfile

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/net2mat/pkg/errors"
)

func TestNewVariableRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		varName string
		class   Class
		rows    int
		cols    int
		data    any
	}{
		{"empty name", "", ClassDouble, 1, 1, []float64{1}},
		{"name starting with digit", "1x", ClassDouble, 1, 1, []float64{1}},
		{"nil data", "x", ClassDouble, 0, 0, nil},
		{"wrong go type", "x", ClassInt32, 1, 1, []float64{1}},
		{"too few elements", "x", ClassDouble, 2, 2, []float64{1, 2, 3}},
		{"too many elements", "x", ClassChar, 1, 1, []byte("ab")},
		{"negative dims", "x", ClassDouble, -1, 0, []float64{}},
		{"unsupported class", "x", Class(3), 1, 1, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVariable(tt.varName, tt.class, tt.rows, tt.cols, tt.data)
			require.Error(t, err)
			assert.Nil(t, v)
			assert.True(t, errors.Is(err, errors.ErrCodeNullVariable), "got %v", err)
		})
	}
}

func TestMarshalHeader(t *testing.T) {
	data, err := Marshal(nil, Options{})
	require.NoError(t, err)
	require.Len(t, data, headerSize)

	assert.Equal(t, DefaultHeader, string(data[:len(DefaultHeader)]))
	assert.Equal(t, byte(' '), data[headerTextSize-1])
	assert.Equal(t, make([]byte, 8), data[116:124])
	assert.Equal(t, []byte{0x00, 0x01, 'I', 'M'}, data[124:128])
}

func TestMarshalHeaderOverride(t *testing.T) {
	data, err := Marshal(nil, Options{Header: "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom ", string(data[:7]))

	_, err = Marshal(nil, Options{Header: string(bytes.Repeat([]byte("x"), 117))})
	assert.True(t, errors.Is(err, errors.ErrCodeArtifactCreation))

	_, err = Marshal(nil, Options{Header: "tab\there"})
	assert.True(t, errors.Is(err, errors.ErrCodeArtifactCreation))
}

func TestMarshalElementLayout(t *testing.T) {
	v, err := Int32("a", 1, 2, []int32{-1, 1})
	require.NoError(t, err)

	data, err := Marshal([]*Variable{v}, Options{})
	require.NoError(t, err)

	le := binary.LittleEndian
	el := data[headerSize:]
	// flags 16 + dims 16 + name 16 + data 16
	require.Len(t, el, 8+64)
	assert.Equal(t, uint32(miMATRIX), le.Uint32(el[0:]))
	assert.Equal(t, uint32(64), le.Uint32(el[4:]))

	body := el[8:]
	assert.Equal(t, uint32(miUINT32), le.Uint32(body[0:]))
	assert.Equal(t, uint32(8), le.Uint32(body[4:]))
	assert.Equal(t, uint32(ClassInt32), le.Uint32(body[8:]))

	assert.Equal(t, uint32(miINT32), le.Uint32(body[16:]))
	assert.Equal(t, uint32(1), le.Uint32(body[24:]))
	assert.Equal(t, uint32(2), le.Uint32(body[28:]))

	assert.Equal(t, uint32(miINT8), le.Uint32(body[32:]))
	assert.Equal(t, uint32(1), le.Uint32(body[36:]))
	assert.Equal(t, []byte{'a', 0, 0, 0, 0, 0, 0, 0}, body[40:48])

	assert.Equal(t, uint32(miINT32), le.Uint32(body[48:]))
	assert.Equal(t, uint32(8), le.Uint32(body[52:]))
	assert.Equal(t, int32(-1), int32(le.Uint32(body[56:])))
	assert.Equal(t, int32(1), int32(le.Uint32(body[60:])))
}

func TestCharStoredAsBytes(t *testing.T) {
	// "Zü" and "ab" interleaved column by column
	ids := []byte{'Z', 'a', 0xc3, 'b', 0xbc, 0x00}
	v, err := Char("nodes_order", 2, 3, ids)
	require.NoError(t, err)

	data, err := Marshal([]*Variable{v}, Options{})
	require.NoError(t, err)

	flags := binary.LittleEndian.Uint32(data[headerSize+16:])
	assert.Equal(t, uint32(ClassChar), flags)

	// name "nodes_order" is 11 bytes, padded to 16
	payloadTag := data[headerSize+8+16+16+8+16:]
	assert.Equal(t, uint32(miUINT8), binary.LittleEndian.Uint32(payloadTag))
	assert.Equal(t, uint32(len(ids)), binary.LittleEndian.Uint32(payloadTag[4:]))
	assert.Equal(t, ids, payloadTag[8:8+len(ids)])

	f, err := Unmarshal(data)
	require.NoError(t, err)
	got, ok := f.Lookup("nodes_order")
	require.True(t, ok)
	rows, err := got.Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"Zü", "ab"}, rows)
}

func sampleVariables(t *testing.T) []*Variable {
	t.Helper()
	inc, err := Int32("incidence_matrix", 3, 2, []int32{-1, 1, 0, 0, -1, 1})
	require.NoError(t, err)
	dbl, err := Float64("length", 1, 3, []float64{20.5, math.Inf(1), -0.25})
	require.NoError(t, err)
	chr, err := Char("nodes_order", 2, 3, []byte("nbo\x00d\x00"))
	require.NoError(t, err)
	empty, err := Float64("temperature", 1, 0, []float64{})
	require.NoError(t, err)
	none, err := Int32("nothing", 0, 0, []int32{})
	require.NoError(t, err)
	return []*Variable{inc, dbl, chr, empty, none}
}

func TestRoundTrip(t *testing.T) {
	vars := sampleVariables(t)
	data, err := Marshal(vars, Options{})
	require.NoError(t, err)

	f, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultHeader, f.Header)
	assert.Equal(t, []string{"incidence_matrix", "length", "nodes_order", "temperature", "nothing"}, f.Names())

	inc, ok := f.Lookup("incidence_matrix")
	require.True(t, ok)
	assert.Equal(t, ClassInt32, inc.Class)
	assert.Equal(t, 3, inc.Rows)
	assert.Equal(t, 2, inc.Cols)
	ints, err := inc.Int32s()
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 1, 0, 0, -1, 1}, ints)

	length, ok := f.Lookup("length")
	require.True(t, ok)
	floats, err := length.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{20.5, math.Inf(1), -0.25}, floats)

	names, ok := f.Lookup("nodes_order")
	require.True(t, ok)
	strs, err := names.Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"nod", "b"}, strs)

	temp, ok := f.Lookup("temperature")
	require.True(t, ok)
	assert.Equal(t, 0, temp.Len())
	floats, err = temp.Float64s()
	require.NoError(t, err)
	assert.Empty(t, floats)

	_, ok = f.Lookup("missing")
	assert.False(t, ok)
}

func TestMarshalDeterministic(t *testing.T) {
	a, err := Marshal(sampleVariables(t), Options{})
	require.NoError(t, err)
	b, err := Marshal(sampleVariables(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Zero(t, len(a)%8)
}

func TestEncodeNilVariable(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, []*Variable{nil}, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeNullVariable))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.mat")

	require.NoError(t, WriteFile(path, sampleVariables(t), Options{}))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Variables, 5)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "net.mat", entries[0].Name())
}

func TestWriteFileReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.mat")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, WriteFile(path, sampleVariables(t), Options{}))

	_, err := ReadFile(path)
	require.NoError(t, err)
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "net.mat")

	err := WriteFile(path, sampleVariables(t), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeArtifactCreation))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFileEncodeFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.mat")

	err := WriteFile(path, []*Variable{nil}, Options{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalErrors(t *testing.T) {
	valid, err := Marshal(sampleVariables(t), Options{})
	require.NoError(t, err)

	badEndian := append([]byte(nil), valid...)
	copy(badEndian[126:], "XX")

	badVersion := append([]byte(nil), valid...)
	badVersion[125] = 0x02

	tests := []struct {
		name string
		data []byte
	}{
		{"short", valid[:100]},
		{"bad endian", badEndian},
		{"bad version", badVersion},
		{"truncated element", valid[:len(valid)-8]},
		{"truncated tag", valid[:headerSize+4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeDocumentParse), "got %v", err)
		})
	}
}

func TestUnmarshalNegativeDimensions(t *testing.T) {
	v, err := Int32("a", 1, 1, []int32{7})
	require.NoError(t, err)
	data, err := Marshal([]*Variable{v}, Options{})
	require.NoError(t, err)

	// dims payload follows the matrix tag, the flags element and the dims tag
	dims := data[headerSize+8+16+8:]
	binary.LittleEndian.PutUint32(dims[0:], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(dims[4:], 0xFFFFFFFF)

	_, err = Unmarshal(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDocumentParse), "got %v", err)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.mat"))
	assert.True(t, errors.Is(err, errors.ErrCodeDocumentParse))
}

// MATLAB stores short names and small integer-valued doubles compactly.
func TestUnmarshalSmallElements(t *testing.T) {
	le := binary.LittleEndian
	var body []byte
	body = le.AppendUint32(body, uint32(miUINT32))
	body = le.AppendUint32(body, 8)
	body = le.AppendUint32(body, uint32(ClassDouble))
	body = le.AppendUint32(body, 0)
	body = le.AppendUint32(body, uint32(miINT32))
	body = le.AppendUint32(body, 8)
	body = le.AppendUint32(body, 1)
	body = le.AppendUint32(body, 1)
	body = le.AppendUint32(body, 1<<16|uint32(miINT8))
	body = append(body, 'x', 0, 0, 0)
	body = le.AppendUint32(body, 1<<16|uint32(miUINT8))
	body = append(body, 3, 0, 0, 0)

	data, err := Marshal(nil, Options{})
	require.NoError(t, err)
	data = le.AppendUint32(data, uint32(miMATRIX))
	data = le.AppendUint32(data, uint32(len(body)))
	data = append(data, body...)

	f, err := Unmarshal(data)
	require.NoError(t, err)
	v, ok := f.Lookup("x")
	require.True(t, ok)
	got, err := v.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, got)

	ints, err := v.Int32s()
	require.NoError(t, err)
	assert.Equal(t, []int32{3}, ints)
}

func TestUnmarshalSkipsUnsupportedArrays(t *testing.T) {
	le := binary.LittleEndian
	var body []byte
	body = le.AppendUint32(body, uint32(miUINT32))
	body = le.AppendUint32(body, 8)
	body = le.AppendUint32(body, 2) // struct class
	body = le.AppendUint32(body, 0)
	body = le.AppendUint32(body, uint32(miINT32))
	body = le.AppendUint32(body, 8)
	body = le.AppendUint32(body, 1)
	body = le.AppendUint32(body, 1)
	body = le.AppendUint32(body, 1<<16|uint32(miINT8))
	body = append(body, 's', 0, 0, 0)

	data, err := Marshal(nil, Options{})
	require.NoError(t, err)
	data = le.AppendUint32(data, uint32(miMATRIX))
	data = le.AppendUint32(data, uint32(len(body)))
	data = append(data, body...)

	f, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Empty(t, f.Variables)
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "char", ClassChar.String())
	assert.Equal(t, "double", ClassDouble.String())
	assert.Equal(t, "int32", ClassInt32.String())
	assert.Equal(t, "class(9)", Class(9).String())
}
