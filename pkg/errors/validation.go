package errors

import (
	"regexp"
	"strings"
)

// MaxVariableNameLength is the longest variable name a MAT-file reader accepts.
const MaxVariableNameLength = 63

// variableNameRegex matches names MATLAB accepts as variable identifiers.
var variableNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateVariableName checks that name can be stored as a container variable.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 63 characters
//   - Must start with a letter, followed by letters, digits or underscores
func ValidateVariableName(name string) error {
	if name == "" {
		return New(ErrCodeNullVariable, "variable name cannot be empty")
	}

	if len(name) > MaxVariableNameLength {
		return New(ErrCodeNullVariable, "variable name %q too long (max %d characters)", name, MaxVariableNameLength)
	}

	if !variableNameRegex.MatchString(name) {
		return New(ErrCodeNullVariable, "invalid variable name: %q", name)
	}

	return nil
}

// ValidateIdentifier checks that an entity id survives the fixed-width
// identifier table. Ids are NUL padded, so an embedded or trailing NUL byte
// would be indistinguishable from padding when the table is decoded.
func ValidateIdentifier(id string) error {
	if strings.IndexByte(id, 0) >= 0 {
		return New(ErrCodeDocumentParse, "identifier %q contains a NUL byte", id)
	}
	return nil
}
