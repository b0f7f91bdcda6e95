package diagnostics

import (
	"errors"
	"fmt"

	"github.com/HicaroD/hexpat/internal/astio"
	"github.com/HicaroD/hexpat/internal/sema"
)

type DiagKind int

const (
	DIAG_ERROR DiagKind = iota
	DIAG_INTERNAL
	DIAG_DECODE
)

func (k DiagKind) String() string {
	switch k {
	case DIAG_ERROR:
		return "error"
	case DIAG_INTERNAL:
		return "internal error"
	case DIAG_DECODE:
		return "decode error"
	}
	return "unknown"
}

type Diag struct {
	File    string
	Line    int
	Kind    DiagKind
	Message string
}

func (d Diag) String() string {
	if d.File == "" {
		return fmt.Sprintf("%d: %s: %s", d.Line, d.Kind, d.Message)
	}
	if d.Line <= 0 {
		return fmt.Sprintf("%s: %s: %s", d.File, d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Kind, d.Message)
}

// FromError turns an error returned by the decoding or validation stage into
// a diagnostic attributed to file.
func FromError(file string, err error) Diag {
	var verr *sema.ValidationError
	if errors.As(err, &verr) {
		kind := DIAG_ERROR
		if verr.Kind == sema.ERROR_INTERNAL {
			kind = DIAG_INTERNAL
		}
		return Diag{File: file, Line: verr.Line, Kind: kind, Message: verr.Message}
	}

	var derr *astio.DecodeError
	if errors.As(err, &derr) {
		if derr.File != "" {
			file = derr.File
		}
		return Diag{File: file, Line: derr.Line, Kind: DIAG_DECODE, Message: derr.Message}
	}

	return Diag{File: file, Kind: DIAG_ERROR, Message: err.Error()}
}
