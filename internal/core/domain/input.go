package domain

import "errors"

// RunInput is everything the pipeline needs for one run, supplied by the
// upload plumbing.
type RunInput struct {
	DocumentID string
	Data       []byte
	Format     string
	SizeBytes  int64
}

// Validate rejects malformed input before any stage runs.
func (in RunInput) Validate() error {
	switch {
	case in.DocumentID == "":
		return WrapError(ErrInvalidInput, "validate input", errors.New("document id is empty"))
	case len(in.Data) == 0:
		return WrapError(ErrInvalidInput, "validate input", errors.New("document bytes are empty"))
	case in.Format == "":
		return WrapError(ErrInvalidInput, "validate input", errors.New("declared format is empty"))
	default:
		return nil
	}
}

func (in RunInput) Meta() FileMeta {
	return FileMeta{Format: in.Format, SizeBytes: in.SizeBytes}
}
