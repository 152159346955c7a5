package services

import (
	"errors"

	"github.com/wegsoft/weg_abrechnung_app/internal/apperrors"
)

// ErrValidationFailed indicates that the validate-before-generate check
// found error-grade issues and generation was refused.
var ErrValidationFailed = errors.New("statement validation failed")

// ErrUnknownFormat indicates an unsupported statement output format.
var ErrUnknownFormat = errors.New("unknown statement format")

// isFatalDistributionErr reports whether a distribution error must abort the
// whole statement instead of degrading to a zero-share group line.
func isFatalDistributionErr(err error) bool {
	return errors.Is(err, apperrors.ErrNoUnits)
}
