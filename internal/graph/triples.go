package graph

import (
	"fmt"
	"strings"
)

// SchemaNS is the predicate namespace for every statement the builder emits.
const SchemaNS = "http://schema.org/"

const xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"

// Object is the object position of a statement: a plain literal, a typed
// literal, or a node reference.
type Object struct {
	Value    string
	IRI      bool
	Datatype string
}

// Literal wraps a string value as a plain literal object.
func Literal(v string) Object { return Object{Value: v} }

// IntLiteral wraps an integer as an xsd:integer typed literal.
func IntLiteral(n int) Object {
	return Object{Value: fmt.Sprintf("%d", n), Datatype: xsdInteger}
}

// Ref wraps a node identifier as a reference object.
func Ref(uri string) Object { return Object{Value: uri, IRI: true} }

// Statement is one subject-predicate-object triple.
type Statement struct {
	Subject   string
	Predicate string
	Object    Object
}

// Set is an ordered, duplicate-free collection of statements built for a
// single article. Sets are not safe for concurrent use; each build call
// constructs its own.
type Set struct {
	statements []Statement
	index      map[Statement]bool
}

// NewSet returns an empty statement set.
func NewSet() *Set {
	return &Set{index: make(map[Statement]bool)}
}

// Add appends a statement unless an identical one is already present.
func (s *Set) Add(subject, predicate string, obj Object) {
	st := Statement{Subject: subject, Predicate: predicate, Object: obj}
	if s.index[st] {
		return
	}
	s.index[st] = true
	s.statements = append(s.statements, st)
}

// Replace removes every statement with the given subject and predicate, then
// adds the new one. Used for facts that must hold exactly one value.
func (s *Set) Replace(subject, predicate string, obj Object) {
	kept := s.statements[:0]
	for _, st := range s.statements {
		if st.Subject == subject && st.Predicate == predicate {
			delete(s.index, st)
			continue
		}
		kept = append(kept, st)
	}
	s.statements = kept
	s.Add(subject, predicate, obj)
}

// Has reports whether any statement exists for the subject and predicate.
func (s *Set) Has(subject, predicate string) bool {
	for _, st := range s.statements {
		if st.Subject == subject && st.Predicate == predicate {
			return true
		}
	}
	return false
}

// Objects returns the object values stored for the subject and predicate.
func (s *Set) Objects(subject, predicate string) []Object {
	var objs []Object
	for _, st := range s.statements {
		if st.Subject == subject && st.Predicate == predicate {
			objs = append(objs, st.Object)
		}
	}
	return objs
}

// Statements returns the statements in insertion order.
func (s *Set) Statements() []Statement { return s.statements }

// Len returns the number of statements.
func (s *Set) Len() int { return len(s.statements) }

// Turtle serializes the set in Turtle form, one statement per line.
func (s *Set) Turtle() string {
	var b strings.Builder
	for _, st := range s.statements {
		b.WriteString("<")
		b.WriteString(st.Subject)
		b.WriteString("> <")
		b.WriteString(st.Predicate)
		b.WriteString("> ")
		b.WriteString(st.Object.turtle())
		b.WriteString(" .\n")
	}
	return b.String()
}

func (o Object) turtle() string {
	if o.IRI {
		return "<" + o.Value + ">"
	}
	lit := `"` + escapeLiteral(o.Value) + `"`
	if o.Datatype != "" {
		lit += "^^<" + o.Datatype + ">"
	}
	return lit
}

func escapeLiteral(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(v)
}
