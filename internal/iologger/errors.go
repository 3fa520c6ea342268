package iologger

import (
	"fmt"

	"github.com/cladecanvas/cladedb/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateLogFileError creates an error for log file creation failures.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot create log file <em>%s</em>`
	vars := []any{path}

	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to create log file: %w", err),
	}
}
