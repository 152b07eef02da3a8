package schema

import (
	"fmt"

	"golang.org/x/xerrors"
)

type Kind int

const (
	KindUndefined Kind = iota
	// Пустой граф, неизвестная таблица, пустой список таблиц
	KindInvalidInput
	// Внешний ключ ссылается на таблицу вне снимка
	KindInconsistentCatalog
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInconsistentCatalog:
		return "inconsistent_catalog"
	default:
		return "undefined"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "invalid_input":
		*k = KindInvalidInput
	case "inconsistent_catalog":
		*k = KindInconsistentCatalog
	default:
		*k = KindUndefined
	}
	return nil
}

var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrInconsistentCatalog = &Error{Kind: KindInconsistentCatalog}
)

// Error is a classified schema error. Sentinel values with an empty Msg
// match any error of the same Kind with errors.Is.
type Error struct {
	Kind Kind
	Msg  string

	frame xerrors.Frame
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		frame: xerrors.Caller(1),
	}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	e.frame.Format(p)
	return nil
}

func (e *Error) Format(s fmt.State, v rune) { xerrors.FormatError(e, s, v) }
