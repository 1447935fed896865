package fakeapi

import (
	"sort"
	"sync"

	"github.com/apichallenges/todo-contract-tests/apidef"

	"github.com/google/uuid"
)

var seedTodoTitles = []string{
	"scan paperwork",
	"file paperwork",
	"process payments",
	"escalate late payments",
	"pay invoices",
	"process payroll",
	"train staff",
	"schedule meeting",
	"tidy meeting room",
	"install webcam",
}

// session is the state that the service keeps for one challenger: a todo store, challenge
// progress, and the secret note.
type session struct {
	guid      string
	lock      sync.Mutex
	todos     map[int]apidef.Todo
	nextID    int
	completed map[challengeID]bool
	authToken string
	note      string
}

func newSession(guid string) *session {
	s := &session{
		guid:      guid,
		todos:     make(map[int]apidef.Todo),
		completed: make(map[challengeID]bool),
	}
	s.resetTodos(nil)
	return s
}

// resetTodos replaces the store's contents. A nil list restores the initial todos.
func (s *session) resetTodos(todos []apidef.Todo) {
	s.todos = make(map[int]apidef.Todo)
	s.nextID = 1
	if todos == nil {
		for _, title := range seedTodoTitles {
			s.addTodo(apidef.Todo{Title: title})
		}
		return
	}
	for _, todo := range todos {
		s.todos[todo.ID] = todo
		if todo.ID >= s.nextID {
			s.nextID = todo.ID + 1
		}
	}
}

func (s *session) addTodo(todo apidef.Todo) apidef.Todo {
	todo.ID = s.nextID
	s.nextID++
	s.todos[todo.ID] = todo
	return todo
}

// sortedTodos returns the todos in ID order.
func (s *session) sortedTodos() []apidef.Todo {
	ret := make([]apidef.Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		ret = append(ret, todo)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}

func (s *session) complete(ids ...challengeID) {
	for _, id := range ids {
		s.completed[id] = true
	}
}

func (s *session) challenges() challengeList {
	ret := challengeList{Challenges: make([]challengeInfo, 0, challengeCount)}
	for id := challengeID(1); int(id) <= challengeCount; id++ {
		ret.Challenges = append(ret.Challenges, challengeInfo{
			ID:     id.key(),
			Name:   id.name(),
			Status: s.completed[id],
		})
	}
	return ret
}

// token returns the session's auth token, creating it the first time.
func (s *session) token() string {
	if s.authToken == "" {
		s.authToken = uuid.NewString()
	}
	return s.authToken
}

type progress struct {
	XChallenger     string          `json:"xChallenger"`
	XAuthToken      string          `json:"xAuthToken"`
	SecretNote      string          `json:"secretNote"`
	ChallengeStatus map[string]bool `json:"challengeStatus"`
}

func (s *session) progress() progress {
	p := progress{
		XChallenger:     s.guid,
		XAuthToken:      s.authToken,
		SecretNote:      s.note,
		ChallengeStatus: make(map[string]bool, challengeCount),
	}
	for id := challengeID(1); int(id) <= challengeCount; id++ {
		p.ChallengeStatus[id.key()] = s.completed[id]
	}
	return p
}

func (s *session) restoreProgress(p progress) {
	s.authToken = p.XAuthToken
	s.note = p.SecretNote
	s.completed = make(map[challengeID]bool)
	for id := challengeID(1); int(id) <= challengeCount; id++ {
		if p.ChallengeStatus[id.key()] {
			s.completed[id] = true
		}
	}
}
