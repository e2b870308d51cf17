package scoring

import (
	"errors"
	"fmt"
)

// Validation error kinds, for use with errors.Is.
var (
	ErrMissingAnswer = errors.New("missing answer")
	ErrInvalidValue  = errors.New("invalid value")
)

// AnswerError reports the first item of an answer map that failed validation.
type AnswerError struct {
	Kind       error  // ErrMissingAnswer or ErrInvalidValue
	Instrument string // item prefix, e.g. "SRSS-IE"; empty for VIA
	Item       int
	Value      any // offending value; nil for missing answers
}

// Error returns the user-facing message in the questionnaire's language.
func (e *AnswerError) Error() string {
	item := e.itemRef()
	if errors.Is(e.Kind, ErrMissingAnswer) {
		return fmt.Sprintf("Resposta ausente para o item %s", item)
	}
	if s, ok := e.Value.(string); ok {
		return fmt.Sprintf("Valor inválido %q para item %s", s, item)
	}
	return fmt.Sprintf("Valor inválido %v para item %s", e.Value, item)
}

// Unwrap exposes the error kind.
func (e *AnswerError) Unwrap() error {
	return e.Kind
}

func (e *AnswerError) itemRef() string {
	if e.Instrument == "" {
		return fmt.Sprintf("%d", e.Item)
	}
	return fmt.Sprintf("%s %d", e.Instrument, e.Item)
}

// NewMissingAnswer builds a MissingAnswer error.
func NewMissingAnswer(instrument string, item int) *AnswerError {
	return &AnswerError{Kind: ErrMissingAnswer, Instrument: instrument, Item: item}
}

// NewInvalidValue builds an InvalidValue error.
func NewInvalidValue(instrument string, item int, value any) *AnswerError {
	return &AnswerError{Kind: ErrInvalidValue, Instrument: instrument, Item: item, Value: value}
}
