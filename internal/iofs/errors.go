package iofs

import (
	"fmt"

	"github.com/cladecanvas/cladedb/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateDirError creates an error for directory creation failures.
func CreateDirError(dir string, err error) error {
	msg := `Cannot create directory <em>%s</em>`
	vars := []any{dir}

	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to create directory %s: %w", dir, err),
	}
}

// CopyFileError creates an error for file write failures.
func CopyFileError(path string, err error) error {
	msg := `Cannot write file <em>%s</em>`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write file %s: %w", path, err),
	}
}

// ReadFileError creates an error for file read failures.
func ReadFileError(path string, err error) error {
	msg := `Cannot read file <em>%s</em>`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read file %s: %w", path, err),
	}
}
