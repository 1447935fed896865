package apidef

import (
	"encoding/xml"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Todo is a todo item as the service represents it in responses.
type Todo struct {
	XMLName     xml.Name `json:"-" xml:"todo"`
	ID          int      `json:"id,omitempty" xml:"id,omitempty"`
	Title       string   `json:"title" xml:"title"`
	Description string   `json:"description" xml:"description"`
	DoneStatus  bool     `json:"doneStatus" xml:"doneStatus"`
}

// TodoList is the body of GET /todos, GET /todos/{id}, and the challenger database resource.
type TodoList struct {
	XMLName xml.Name `json:"-" xml:"todos"`
	Todos   []Todo   `json:"todos" xml:"todo"`
}

// Field names of a todo.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDoneStatus  = "doneStatus"
)

// TodoPayload is a request body for creating or amending a todo. Unlike Todo, it can contain
// any set of fields with values of any JSON type, so it can also describe invalid requests.
//
// TodoPayload values are immutable; the With methods return modified copies.
type TodoPayload struct {
	keys   []string
	values map[string]ldvalue.Value
}

func NewTodoPayload() TodoPayload {
	return TodoPayload{values: make(map[string]ldvalue.Value)}
}

// DefaultTodo returns the payload that tests use when they just need some valid todo.
func DefaultTodo() TodoPayload {
	return NewTodoPayload().
		WithTitle(DefaultTodoTitle).
		WithDoneStatus(true).
		WithDescription("")
}

// PayloadFromTodo returns a payload with every field of the todo except its ID.
func PayloadFromTodo(todo Todo) TodoPayload {
	return NewTodoPayload().
		WithTitle(todo.Title).
		WithDoneStatus(todo.DoneStatus).
		WithDescription(todo.Description)
}

func (p TodoPayload) With(key string, value ldvalue.Value) TodoPayload {
	ret := p.clone()
	if _, ok := ret.values[key]; !ok {
		ret.keys = append(ret.keys, key)
	}
	ret.values[key] = value
	return ret
}

func (p TodoPayload) Without(key string) TodoPayload {
	ret := TodoPayload{values: make(map[string]ldvalue.Value, len(p.values))}
	for _, k := range p.keys {
		if k != key {
			ret.keys = append(ret.keys, k)
			ret.values[k] = p.values[k]
		}
	}
	return ret
}

func (p TodoPayload) WithID(id int) TodoPayload {
	return p.With(FieldID, ldvalue.Int(id))
}

func (p TodoPayload) WithTitle(title string) TodoPayload {
	return p.With(FieldTitle, ldvalue.String(title))
}

func (p TodoPayload) WithDescription(description string) TodoPayload {
	return p.With(FieldDescription, ldvalue.String(description))
}

func (p TodoPayload) WithDoneStatus(done bool) TodoPayload {
	return p.With(FieldDoneStatus, ldvalue.Bool(done))
}

// Get returns the value of a field, or a null value if the field is not present.
func (p TodoPayload) Get(key string) ldvalue.Value {
	return p.values[key]
}

func (p TodoPayload) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the field names in the order they were first added.
func (p TodoPayload) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p TodoPayload) Value() ldvalue.Value {
	b := ldvalue.ObjectBuild()
	for _, k := range p.keys {
		b.Set(k, p.values[k])
	}
	return b.Build()
}

func (p TodoPayload) MarshalJSON() ([]byte, error) {
	return p.Value().MarshalJSON()
}

func (p TodoPayload) String() string {
	return p.Value().JSONString()
}

func (p TodoPayload) clone() TodoPayload {
	ret := TodoPayload{
		keys:   append([]string(nil), p.keys...),
		values: make(map[string]ldvalue.Value, len(p.values)),
	}
	for k, v := range p.values {
		ret.values[k] = v
	}
	return ret
}
