package fakeapi

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/apichallenges/todo-contract-tests/apidef"

	"github.com/go-chi/chi/v5"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	allowTodos = "OPTIONS, GET, HEAD, POST"
	allowTodo  = "OPTIONS, GET, HEAD, POST, PUT, DELETE"
)

type problemKind int

const (
	problemUnknownField problemKind = iota
	problemWrongType
	problemTooLong
)

type fieldProblem struct {
	field   string
	kind    problemKind
	message string
}

type fieldRule struct {
	name      string
	valueType ldvalue.ValueType
	maxLength int
	tooLong   string
}

var fieldRules = []fieldRule{
	{name: apidef.FieldID, valueType: ldvalue.NumberType},
	{name: apidef.FieldTitle, valueType: ldvalue.StringType, maxLength: apidef.MaxTitleLength, tooLong: apidef.TooLongTitle},
	{name: apidef.FieldDescription, valueType: ldvalue.StringType, maxLength: apidef.MaxDescriptionLength,
		tooLong: apidef.TooLongDescription},
	{name: apidef.FieldDoneStatus, valueType: ldvalue.BoolType},
}

func knownField(name string) bool {
	for _, rule := range fieldRules {
		if rule.name == name {
			return true
		}
	}
	return false
}

// checkFields returns the first problem with a todo body, or nil if every field is known and
// has a valid value.
func checkFields(fields map[string]ldvalue.Value) *fieldProblem {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !knownField(name) {
			return &fieldProblem{field: name, kind: problemUnknownField, message: apidef.UnknownField(name)}
		}
	}
	for _, rule := range fieldRules {
		value, ok := fields[rule.name]
		if !ok {
			continue
		}
		if value.Type() != rule.valueType || (rule.name == apidef.FieldID && !value.IsInt()) {
			return &fieldProblem{
				field:   rule.name,
				kind:    problemWrongType,
				message: apidef.WrongFieldType(rule.name, typeNameOf(rule.valueType), typeName(value)),
			}
		}
		if rule.maxLength > 0 && utf8.RuneCountInString(value.StringValue()) > rule.maxLength {
			return &fieldProblem{field: rule.name, kind: problemTooLong, message: rule.tooLong}
		}
	}
	return nil
}

func applyFields(todo apidef.Todo, fields map[string]ldvalue.Value) apidef.Todo {
	if v, ok := fields[apidef.FieldTitle]; ok {
		todo.Title = v.StringValue()
	}
	if v, ok := fields[apidef.FieldDescription]; ok {
		todo.Description = v.StringValue()
	}
	if v, ok := fields[apidef.FieldDoneStatus]; ok {
		todo.DoneStatus = v.BoolValue()
	}
	return todo
}

func hasTitle(fields map[string]ldvalue.Value) bool {
	v, ok := fields[apidef.FieldTitle]
	return ok && v.StringValue() != ""
}

// todoFromRequest performs the checks that are common to every request with a todo body. If
// it returns false, an error response has already been written.
func (s *Server) todoFromRequest(sess *session, w http.ResponseWriter, r *http.Request, out format) (
	format, map[string]ldvalue.Value, *fieldProblem, bool) {
	in, ok := requestFormat(r)
	if !ok {
		if r.URL.Path == apidef.PathTodos {
			sess.complete(chCreateTodoUnsupported)
		}
		writeErrors(w, http.StatusUnsupportedMediaType, out, apidef.UnsupportedContentType(r.Header.Get("Content-Type")))
		return in, nil, nil, false
	}
	data, err := readBody(r)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			if r.URL.Path == apidef.PathTodos {
				sess.complete(chCreateTodoContentTooLong)
			}
			writeErrors(w, http.StatusRequestEntityTooLarge, out, apidef.RequestTooLarge)
		} else {
			writeErrors(w, http.StatusBadRequest, out, err.Error())
		}
		return in, nil, nil, false
	}
	fields, err := decodeFields(data, in)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, out, "Failed to parse request body: "+err.Error())
		return in, nil, nil, false
	}
	return in, fields, checkFields(fields), true
}

func todoID(r *http.Request) (int, string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	return id, raw, err == nil
}

func (s *Server) listTodos(sess *session, w http.ResponseWriter, r *http.Request) {
	out, kind, ok := negotiate(r)
	if !ok {
		sess.complete(chGetTodosUnacceptable)
		writeErrors(w, http.StatusNotAcceptable, formatJSON, apidef.UnrecognisedAccept)
		return
	}
	query := r.URL.Query()
	todos := make([]apidef.Todo, 0, len(sess.todos))
	for _, todo := range sess.sortedTodos() {
		if matchesQuery(todo, query) {
			todos = append(todos, todo)
		}
	}

	sess.complete(chGetTodos)
	if len(query) != 0 {
		sess.complete(chGetTodosFiltered)
	}
	switch kind {
	case acceptNone:
		sess.complete(chGetTodosNoAccept)
	case acceptJSON:
		sess.complete(chGetTodosJSON)
	case acceptXML:
		sess.complete(chGetTodosXML)
	case acceptAny:
		sess.complete(chGetTodosAny)
	case acceptPreferred:
		if out == formatXML {
			sess.complete(chGetTodosXMLPreferred)
		}
	}
	writeValue(w, http.StatusOK, out, apidef.TodoList{Todos: todos})
}

func matchesQuery(todo apidef.Todo, query map[string][]string) bool {
	for name, values := range query {
		var actual string
		switch name {
		case apidef.FieldID:
			actual = strconv.Itoa(todo.ID)
		case apidef.FieldTitle:
			actual = todo.Title
		case apidef.FieldDescription:
			actual = todo.Description
		case apidef.FieldDoneStatus:
			actual = strconv.FormatBool(todo.DoneStatus)
		default:
			continue
		}
		for _, v := range values {
			if v != actual {
				return false
			}
		}
	}
	return true
}

func (s *Server) headTodos(sess *session, w http.ResponseWriter, r *http.Request) {
	out, _, ok := negotiate(r)
	if !ok {
		w.WriteHeader(http.StatusNotAcceptable)
		return
	}
	if out == formatXML {
		w.Header().Set("Content-Type", apidef.MediaTypeXML)
	} else {
		w.Header().Set("Content-Type", apidef.MediaTypeJSON)
	}
	sess.complete(chHeadTodos)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) optionsTodos(sess *session, w http.ResponseWriter, r *http.Request) {
	sess.complete(chOptionsTodos)
	w.Header().Set("Allow", allowTodos)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) optionsTodo(sess *session, w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", allowTodo)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) todoNotPlural(sess *session, w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		sess.complete(chGetTodoNotPlural)
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *Server) createTodo(sess *session, w http.ResponseWriter, r *http.Request) {
	out, kind, ok := negotiate(r)
	if !ok {
		writeErrors(w, http.StatusNotAcceptable, formatJSON, apidef.UnrecognisedAccept)
		return
	}
	in, fields, problem, ok := s.todoFromRequest(sess, w, r, out)
	if !ok {
		return
	}
	if problem != nil {
		switch {
		case problem.kind == problemUnknownField:
			sess.complete(chCreateTodoExtraField)
		case problem.field == apidef.FieldDoneStatus:
			sess.complete(chCreateTodoDoneStatusInvalid)
		case problem.field == apidef.FieldTitle && problem.kind == problemTooLong:
			sess.complete(chCreateTodoTitleTooLong)
		case problem.field == apidef.FieldDescription && problem.kind == problemTooLong:
			sess.complete(chCreateTodoDescriptionTooLong)
		}
		writeErrors(w, http.StatusBadRequest, out, problem.message)
		return
	}
	if _, ok := fields[apidef.FieldID]; ok {
		writeErrors(w, http.StatusBadRequest, out, apidef.CreateWithID)
		return
	}
	if !hasTitle(fields) {
		writeErrors(w, http.StatusBadRequest, out, apidef.MandatoryTitle)
		return
	}
	if len(sess.todos) >= apidef.MaxTodos {
		writeErrors(w, http.StatusBadRequest, out, apidef.TodoLimitReached)
		return
	}

	todo := sess.addTodo(applyFields(apidef.Todo{}, fields))
	sess.complete(chCreateTodo)
	if utf8.RuneCountInString(todo.Title) == apidef.MaxTitleLength &&
		utf8.RuneCountInString(todo.Description) == apidef.MaxDescriptionLength {
		sess.complete(chCreateTodoMaxContent)
	}
	switch {
	case in == formatXML && out == formatXML:
		sess.complete(chCreateTodoXML)
	case in == formatJSON && out == formatJSON && kind == acceptJSON:
		sess.complete(chCreateTodoJSON)
	case in == formatXML && out == formatJSON && kind == acceptJSON:
		sess.complete(chCreateTodoXMLToJSON)
	case in == formatJSON && out == formatXML:
		sess.complete(chCreateTodoJSONToXML)
	}
	if len(sess.todos) == apidef.MaxTodos {
		sess.complete(chCreateAllTodos)
	}
	w.Header().Set("Location", apidef.TodoPath(todo.ID))
	writeValue(w, http.StatusCreated, out, todo)
}

func (s *Server) getTodo(sess *session, w http.ResponseWriter, r *http.Request) {
	out, _, ok := negotiate(r)
	if !ok {
		writeErrors(w, http.StatusNotAcceptable, formatJSON, apidef.UnrecognisedAccept)
		return
	}
	id, raw, ok := todoID(r)
	todo, found := sess.todos[id]
	if !ok || !found {
		if r.Method == http.MethodGet {
			sess.complete(chGetTodoNotFound)
		}
		writeErrors(w, http.StatusNotFound, out, apidef.TodoNotFound(raw))
		return
	}
	if r.Method == http.MethodGet {
		sess.complete(chGetTodo)
	}
	writeValue(w, http.StatusOK, out, apidef.TodoList{Todos: []apidef.Todo{todo}})
}

func (s *Server) amendTodo(sess *session, w http.ResponseWriter, r *http.Request) {
	out, _, ok := negotiate(r)
	if !ok {
		writeErrors(w, http.StatusNotAcceptable, formatJSON, apidef.UnrecognisedAccept)
		return
	}
	id, raw, ok := todoID(r)
	todo, found := sess.todos[id]
	if !ok || !found {
		sess.complete(chAmendTodoNotFound)
		if !ok {
			writeErrors(w, http.StatusNotFound, out, apidef.TodoNotFound(raw))
		} else {
			writeErrors(w, http.StatusNotFound, out, apidef.WrongTodoID(id))
		}
		return
	}
	_, fields, problem, ok := s.todoFromRequest(sess, w, r, out)
	if !ok {
		return
	}
	if problem != nil {
		writeErrors(w, http.StatusBadRequest, out, problem.message)
		return
	}
	if v, ok := fields[apidef.FieldID]; ok && v.IntValue() != id {
		writeErrors(w, http.StatusBadRequest, out, apidef.AmendID(id, v.IntValue()))
		return
	}
	if v, ok := fields[apidef.FieldTitle]; ok && v.StringValue() == "" {
		writeErrors(w, http.StatusBadRequest, out, apidef.MandatoryTitle)
		return
	}
	todo = applyFields(todo, fields)
	sess.todos[id] = todo
	sess.complete(chAmendTodo)
	writeValue(w, http.StatusOK, out, todo)
}

func (s *Server) replaceTodo(sess *session, w http.ResponseWriter, r *http.Request) {
	out, _, ok := negotiate(r)
	if !ok {
		writeErrors(w, http.StatusNotAcceptable, formatJSON, apidef.UnrecognisedAccept)
		return
	}
	id, _, ok := todoID(r)
	if _, found := sess.todos[id]; !ok || !found {
		sess.complete(chPutTodoCreate)
		writeErrors(w, http.StatusBadRequest, out, apidef.CreateWithPut)
		return
	}
	_, fields, problem, ok := s.todoFromRequest(sess, w, r, out)
	if !ok {
		return
	}
	if problem != nil {
		writeErrors(w, http.StatusBadRequest, out, problem.message)
		return
	}
	if v, ok := fields[apidef.FieldID]; ok && v.IntValue() != id {
		sess.complete(chPutTodoAmendID)
		writeErrors(w, http.StatusBadRequest, out, apidef.AmendID(id, v.IntValue()))
		return
	}
	if !hasTitle(fields) {
		sess.complete(chPutTodoNoTitle)
		writeErrors(w, http.StatusBadRequest, out, apidef.MandatoryTitle)
		return
	}

	todo := applyFields(apidef.Todo{ID: id}, fields)
	sess.todos[id] = todo
	_, hasDescription := fields[apidef.FieldDescription]
	_, hasDoneStatus := fields[apidef.FieldDoneStatus]
	if hasDescription && hasDoneStatus {
		sess.complete(chPutTodoFull)
	} else {
		sess.complete(chPutTodoPartial)
	}
	writeValue(w, http.StatusOK, out, todo)
}

func (s *Server) deleteTodo(sess *session, w http.ResponseWriter, r *http.Request) {
	id, raw, ok := todoID(r)
	if _, found := sess.todos[id]; !ok || !found {
		writeErrors(w, http.StatusNotFound, formatJSON, apidef.TodoNotFound(raw))
		return
	}
	delete(sess.todos, id)
	sess.complete(chDeleteTodo)
	if len(sess.todos) == 0 {
		sess.complete(chDeleteAllTodos)
	}
	w.WriteHeader(http.StatusOK)
}

func typeNameOf(t ldvalue.ValueType) string {
	switch t {
	case ldvalue.BoolType:
		return "BOOLEAN"
	case ldvalue.NumberType:
		return "NUMERIC"
	case ldvalue.StringType:
		return "STRING"
	case ldvalue.NullType:
		return "NULL"
	case ldvalue.ArrayType:
		return "ARRAY"
	default:
		return "OBJECT"
	}
}

func typeName(v ldvalue.Value) string {
	return typeNameOf(v.Type())
}
