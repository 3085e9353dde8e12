package iso8583

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("invalid field configuration")
	ErrContentTooLong   = errors.New("content too long")
	ErrLengthOutOfRange = errors.New("length out of range")
	ErrBitNotFound      = errors.New("bit not present in bitmap")
	ErrInvalidRange     = errors.New("field index out of range")
	ErrTruncatedInput   = errors.New("truncated input")
	ErrInvalidDataType  = errors.New("invalid data type")
	ErrInvalidMTI       = errors.New("invalid MTI")
	ErrInvalidContent   = errors.New("invalid content")
	ErrInvalidTLV       = errors.New("invalid TLV data")
)

// FieldError ties a codec failure to the field index it happened on.
type FieldError struct {
	Field int
	Err   error
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("field %d: %v", fe.Field, fe.Err)
}

func (fe *FieldError) Unwrap() error {
	return fe.Err
}

type TLVError struct {
	Tag []byte
	Err error
}

func (te *TLVError) Error() string {
	return fmt.Sprintf("TLV tag %X: %v", te.Tag, te.Err)
}

func (te *TLVError) Unwrap() error {
	return te.Err
}

// ValidationError reports a content-class violation found by Validate.
type ValidationError struct {
	Field   int
	Rule    string
	Message string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %d (%s): %s", ve.Field, ve.Rule, ve.Message)
}

func (ve *ValidationError) Unwrap() error {
	return ErrInvalidContent
}
