package markup

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrMismatchedContainer = errors.New("mismatched container")
	ErrLonelyOptional      = errors.New("lonely optional")
	ErrIntegrity           = errors.New("unabsorbed token")
	ErrUnregistered        = errors.New("no container registered")
	ErrBadRange            = errors.New("bad encapsulation range")
)

// contextSize is the number of pile slots shown on each side of the offending one.
const contextSize = 5

// MismatchedContainerError reports a token that could not be matched or resolved.
type MismatchedContainerError struct {
	Label   string
	Line    int
	File    string
	Context []string
}

func newMismatchedContainerError(t *Token, pile []Node, index int) *MismatchedContainerError {
	return &MismatchedContainerError{
		Label:   t.Label(),
		Line:    t.Line,
		File:    t.File,
		Context: pileContext(pile, index),
	}
}

func (e *MismatchedContainerError) Error() string {
	label := e.Label
	if label == "" {
		label = "unclassified token"
	}
	return fmt.Sprintf("could not process %s at line %d in file %s", label, e.Line, fileName(e.File))
}

func (e *MismatchedContainerError) Is(target error) bool {
	return target == ErrMismatchedContainer
}

// LonelyOptionalError reports an optional token with no container right before it.
// Found is the bare token that was found instead, or nil when nothing preceded it.
type LonelyOptionalError struct {
	Optional *Token
	Found    *Token
}

func (e *LonelyOptionalError) Error() string {
	if e.Found != nil {
		return fmt.Sprintf("could not match %s at line %d with %s at line %d in file %s (not a container)",
			e.Optional, e.Optional.Line, e.Found, e.Found.Line, fileName(e.Optional.File))
	}
	return fmt.Sprintf("could not match %s at line %d in file %s as there was nothing before it",
		e.Optional, e.Optional.Line, fileName(e.Optional.File))
}

func (e *LonelyOptionalError) Is(target error) bool {
	return target == ErrLonelyOptional
}

// IntegrityError reports a token left unabsorbed after the main pass.
type IntegrityError struct {
	Token   *Token
	Context []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("encountered a non-container element in the final pass: %s, at line %d in file %s",
		e.Token, e.Token.Line, fileName(e.Token.File))
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// RegistryError reports a finalization key with no registered container.
type RegistryError struct {
	Key string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("element %q not in the token-container registry", e.Key)
}

func (e *RegistryError) Is(target error) bool {
	return target == ErrUnregistered
}

// RangeError reports an invalid encapsulation range.
type RangeError struct {
	Start, End, Len int
	Reason          string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("indexes (%d:%d) must be in the pile range (%d): %s", e.Start, e.End, e.Len, e.Reason)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrBadRange
}

// Snippet renders the pile context of err, or "" when err carries none.
func Snippet(err error) string {
	var lines []string
	var mismatch *MismatchedContainerError
	var integrity *IntegrityError
	switch {
	case errors.As(err, &mismatch):
		lines = mismatch.Context
	case errors.As(err, &integrity):
		lines = integrity.Context
	}
	return strings.Join(lines, "\n")
}

func pileContext(pile []Node, index int) []string {
	if len(pile) == 0 || index < 0 || index >= len(pile) {
		return nil
	}
	start := max(0, index-contextSize)
	end := min(len(pile), index+contextSize+1)
	var lines []string
	for i := start; i < end; i++ {
		if pile[i] == nil {
			continue
		}
		if tok, ok := pile[i].(*Token); ok && tok.Kind == KindLinebreak {
			continue
		}
		marker := "  "
		if i == index {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%2d: %s", marker, i-index, pile[i]))
	}
	return lines
}

func fileName(f string) string {
	if f == "" {
		return "<input>"
	}
	return f
}
