package apperror

import (
	"errors"
	"fmt"
)

// Code is a typed error code enum for consistent failure identification.
type Code string

const (
	// ─── Input ─────────────────────────────────────────────────────────
	CodeStructural Code = "STRUCTURAL_ERROR"
	CodeParse      Code = "PARSE_ERROR"

	// ─── Storage ───────────────────────────────────────────────────────
	CodeIO Code = "IO_ERROR"

	// ─── Setup ─────────────────────────────────────────────────────────
	CodeConfig Code = "CONFIG_ERROR"

	// ─── Internal ──────────────────────────────────────────────────────
	CodeInternal Code = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code Code) string {
	switch code {
	case CodeStructural:
		return "O documento não tem a estrutura esperada."
	case CodeParse:
		return "O conteúdo do arquivo não é um JSON válido."
	case CodeIO:
		return "Falha ao ler ou gravar o arquivo de dados."
	case CodeConfig:
		return "Configuração inválida."
	case CodeInternal:
		return "Erro interno durante a migração."
	default:
		return "Ocorreu um erro inesperado."
	}
}

// Error carries a Code, the operation that failed and the underlying cause.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, GetMessage(e.Code))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error from a formatted detail message.
func New(code Code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a code and operation to err. A nil err stays nil.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf returns the code of the outermost *Error in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
