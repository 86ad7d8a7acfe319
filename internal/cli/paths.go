package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/net2mat/pkg/errors"
	"github.com/matzehuels/net2mat/pkg/pipeline"
)

// resolveOutputPath derives the artifact path from the input path and the
// optional output argument:
//
//   - no output: the input path with its extension replaced by .mat
//   - output ending in .mat: used verbatim
//   - output naming a directory (trailing separator): the input's base name
//     with .mat appended to it
//   - output without extension: treated as a directory, same as above
//
// Anything else is an INVALID_ARGUMENT error.
func resolveOutputPath(input, output string) (string, error) {
	name := replaceExt(filepath.Base(input), pipeline.Extension)

	switch {
	case output == "":
		return replaceExt(input, pipeline.Extension), nil
	case filepath.Ext(output) == pipeline.Extension && hasExtension(filepath.Base(output)):
		return output, nil
	case strings.HasSuffix(output, string(os.PathSeparator)) || strings.HasSuffix(output, "/"):
		return output + name, nil
	case !hasExtension(filepath.Base(output)):
		return filepath.Join(output, name), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidArgument, "output path %q was not understood", output)
	}
}

// replaceExt swaps the extension of path for ext, or appends ext if path
// has none.
func replaceExt(path, ext string) string {
	if hasExtension(filepath.Base(path)) {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path + ext
}

// hasExtension reports whether a file name has an extension. Dot files
// such as ".hidden" and the names "." and ".." have none.
func hasExtension(base string) bool {
	if base == "." || base == ".." {
		return false
	}
	ext := filepath.Ext(base)
	return ext != "" && ext != base
}
