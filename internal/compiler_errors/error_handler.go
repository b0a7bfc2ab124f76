package compiler_errors

import (
	"fmt"
	"io"
)

type CompilerError interface {
	GetMessage() string
}

type ErrorHandler interface {
	AddError(err CompilerError)
	HasErrors() bool
	Errors() []CompilerError
	Report()
}

type CompilerErrorHandler struct {
	errors []CompilerError
	writer io.Writer
	color  bool
}

func NewErrorHandler(outputWriter io.Writer) ErrorHandler {
	return &CompilerErrorHandler{
		errors: make([]CompilerError, 0),
		writer: outputWriter,
		color:  isTerminal(outputWriter),
	}
}

func (eh *CompilerErrorHandler) AddError(err CompilerError) {
	eh.errors = append(eh.errors, err)
}

func (eh *CompilerErrorHandler) HasErrors() bool {
	return len(eh.errors) > 0
}

func (eh *CompilerErrorHandler) Errors() []CompilerError {
	return eh.errors
}

// Report prints every collected error as one batch. Nothing is printed when
// the batch is empty.
func (eh *CompilerErrorHandler) Report() {
	if len(eh.errors) == 0 {
		return
	}

	fmt.Fprintln(eh.writer, "Build failed with errors:")

	prefix := "ERROR:"
	if eh.color {
		prefix = "\x1b[1;31mERROR:\x1b[0m"
	}
	for _, err := range eh.errors {
		fmt.Fprintf(eh.writer, "%s %s\n", prefix, err.GetMessage())
	}
}

// MessageError carries a preformatted message, used for errors raised
// outside of the lexer and parser (I/O, configuration, semantic checks).
type MessageError struct {
	Message string
}

func (e *MessageError) GetMessage() string {
	return e.Message
}

func FromError(err error) *MessageError {
	return &MessageError{Message: err.Error()}
}
