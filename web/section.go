package web

import (
	"html/template"

	"github.com/rpupo63/realestate-site/errs"
)

// State is what a list section shows. A section is in exactly one state.
type State int

const (
	StateLoading State = iota
	StateError
	StateEmpty
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	default:
		return "populated"
	}
}

// Section is the view model of a list block: its items, or why there are none.
type Section[T any] struct {
	state       State
	Items       []T
	Err         error
	Placeholder template.HTML
}

// NewSection derives the state from a fetch result. An error wins over items.
func NewSection[T any](items []T, err error) Section[T] {
	switch {
	case err != nil:
		return Section[T]{state: StateError, Err: err}
	case len(items) == 0:
		return Section[T]{state: StateEmpty}
	default:
		return Section[T]{state: StatePopulated, Items: items}
	}
}

// Loading is a section whose content is fetched by the browser when it scrolls into view.
func Loading[T any](placeholder template.HTML) Section[T] {
	return Section[T]{state: StateLoading, Placeholder: placeholder}
}

func (s Section[T]) State() State      { return s.state }
func (s Section[T]) IsLoading() bool   { return s.state == StateLoading }
func (s Section[T]) IsError() bool     { return s.state == StateError }
func (s Section[T]) IsEmpty() bool     { return s.state == StateEmpty }
func (s Section[T]) IsPopulated() bool { return s.state == StatePopulated }

// ErrorMessage is the banner text. Upstream details stay in the logs.
func (s Section[T]) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	switch {
	case errs.IsNotFound(s.Err):
		return "This content is no longer available."
	case errs.IsUnauthorized(s.Err):
		return "Please sign in again to see this content."
	default:
		return "We could not load this section right now. Please try again shortly."
	}
}
