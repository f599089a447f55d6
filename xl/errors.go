package xl

import "errors"

// Errors reported by the writing API. All of them except those returned
// from Workbook.Close leave the workbook usable: the offending write is
// dropped and previously written content is untouched.
var (
	ErrOutOfRange     = errors.New("row or column is out of range")
	ErrStringTooLong  = errors.New("string exceeds the maximum length")
	ErrRichString     = errors.New("malformed rich string")
	ErrRowOrder       = errors.New("row is behind the constant memory write cursor")
	ErrFinalized      = errors.New("workbook content is finalized")
	ErrNumber         = errors.New("number is not representable")
	ErrName           = errors.New("invalid defined name")
	ErrSheetName      = errors.New("invalid sheet name")
	ErrDuplicateSheet = errors.New("duplicate sheet name")
	ErrURL            = errors.New("invalid url")
	ErrPicture        = errors.New("invalid picture")
	ErrCellRef        = errors.New("invalid cell reference")
	ErrStyle          = errors.New("unknown style id")
	ErrValue          = errors.New("invalid cell value")
)
