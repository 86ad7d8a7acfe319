// Package matfile reads and writes level 5 MAT-files, the container format
// MATLAB, Octave and scipy.io.loadmat understand.
//
// # Scope
//
// Only what net2mat needs is supported: two-dimensional, real, uncompressed
// arrays of class int32, double and char. Files are written little endian.
// Char arrays hold one byte per character and are stored as miUINT8.
// The reader understands everything the writer produces, plus the small
// data element format and other numeric storage types MATLAB itself uses
// when saving doubles, so files round-trip through MATLAB too.
//
// # Layout
//
// A file is a 128 byte header followed by one miMATRIX data element per
// variable. Each element holds, in order, the array flags, the dimensions,
// the name and the real part. Every data element is padded to a multiple of
// 8 bytes. Array data is column-major: element (r, c) of a rows × cols array
// is at offset c*rows + r.
//
// # Writing
//
//	vars := []*matfile.Variable{}
//	v, err := matfile.Float64("height", 1, len(h), h)
//	if err != nil {
//	    return err // never touch v when err != nil
//	}
//	vars = append(vars, v)
//	err = matfile.WriteFile("network.mat", vars, matfile.Options{})
//
// [WriteFile] encodes the whole file in memory, writes it to a temporary
// file in the destination directory and renames it into place, so a failed
// write never leaves a partial artifact behind.
//
// # Reading
//
//	f, err := matfile.ReadFile("network.mat")
//	v, ok := f.Lookup("incidence_matrix")
//	data, err := v.Int32s()
package matfile
