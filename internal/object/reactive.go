package object

import (
	"fmt"
	"io"

	"github.com/stephens2424/writerset"
)

// Subject is gel's reactive broadcast primitive, the runtime half of the
// stream bindings SPEC_FULL.md §1 lists as an out-of-scope collaborator
// surface (no lexer syntax compiles to one
// directly; native procedures construct and drive them). Every Emit fans
// out to every currently-subscribed io.Writer, which is how a REPL, a
// websocket handler or a log sink can all observe the same event stream
// without the emitter knowing about any of them.
//
// Built on writerset.WriterSet, which ymm135-go's own build tooling uses to
// fan a single build log out to several progress reporters at once; here it
// plays the identical role for gel value events instead of log lines.
type Subject struct {
	name string
	set  *writerset.WriterSet
}

// NewSubject creates a named, initially-subscriberless Subject.
func NewSubject(name string) *Subject {
	return &Subject{name: name, set: writerset.New()}
}

// Name returns the Subject's identifier, used in REPL introspection.
func (s *Subject) Name() string { return s.name }

// Subscribe registers w to receive every subsequent Emit, returning an
// Observable handle that can later Unsubscribe it.
func (s *Subject) Subscribe(w io.Writer) *Observable {
	s.set.Add(w)
	return &Observable{subject: s, writer: w}
}

// Emit renders obj and broadcasts it to every current subscriber. Errors
// from individual subscriber writes are not propagated — a stalled
// subscriber must not stop the whole stream, matching writerset's own
// best-effort fan-out semantics.
func (s *Subject) Emit(value fmt.Stringer) {
	_, _ = io.WriteString(s.set, value.String()+"\n")
}

// Observable is a single subscription handle returned by Subject.Subscribe.
type Observable struct {
	subject *Subject
	writer  io.Writer
}

// Unsubscribe removes the underlying writer from its Subject.
func (o *Observable) Unsubscribe() {
	o.subject.set.Remove(o.writer)
}
