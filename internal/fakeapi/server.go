package fakeapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/apichallenges/todo-contract-tests/apidef"
	"github.com/apichallenges/todo-contract-tests/framework"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server is an in-memory implementation of the challenge API. Each challenger session has its
// own todo store and progress; requests without a known X-CHALLENGER header share a default
// session.
type Server struct {
	lock     sync.Mutex
	sessions map[string]*session
	fallback *session
	logger   framework.Logger
}

func NewServer(logger framework.Logger) *Server {
	return &Server{
		sessions: make(map[string]*session),
		fallback: newSession(uuid.NewString()),
		logger:   framework.PrefixedLogger(logger, "[fakeapi] "),
	}
}

// Handler returns the HTTP handler for all of the service's resources.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post(apidef.PathChallenger, s.createChallenger)
	r.Get(apidef.PathChallenger+"/{guid}", s.getProgress)
	r.Put(apidef.PathChallenger+"/{guid}", s.putProgress)
	r.Get(apidef.PathChallengerDatabase+"/{guid}", s.getDatabase)
	r.Put(apidef.PathChallengerDatabase+"/{guid}", s.putDatabase)
	r.Get(apidef.PathChallenges, s.withSession(s.getChallenges))

	r.Route(apidef.PathTodos, func(tr chi.Router) {
		tr.Get("/", s.withSession(s.listTodos))
		tr.Head("/", s.withSession(s.headTodos))
		tr.Post("/", s.withSession(s.createTodo))
		tr.Options("/", s.withSession(s.optionsTodos))
		tr.Get("/{id}", s.withSession(s.getTodo))
		tr.Head("/{id}", s.withSession(s.getTodo))
		tr.Post("/{id}", s.withSession(s.amendTodo))
		tr.Put("/{id}", s.withSession(s.replaceTodo))
		tr.Delete("/{id}", s.withSession(s.deleteTodo))
		tr.Options("/{id}", s.withSession(s.optionsTodo))
	})
	r.HandleFunc(apidef.PathTodo, s.withSession(s.todoNotPlural))
	r.HandleFunc(apidef.PathHeartbeat, s.withSession(s.heartbeat))
	r.HandleFunc(apidef.PathSecretToken, s.withSession(s.secretToken))
	r.HandleFunc(apidef.PathSecretNote, s.withSession(s.secretNote))
	return r
}

// Session reports whether a challenger session exists.
func (s *Server) Session(guid string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.sessions[guid]
	return ok
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Printf("%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), ww.Status(),
			time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) lookup(guid string) *session {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.sessions[guid]
}

// withSession resolves the X-CHALLENGER header and holds that session's lock for the duration
// of the request.
func (s *Server) withSession(handler func(*session, http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.lookup(r.Header.Get(apidef.HeaderChallenger))
		if sess == nil {
			sess = s.fallback
		}
		sess.lock.Lock()
		defer sess.lock.Unlock()
		handler(sess, w, r)
	}
}

func (s *Server) createChallenger(w http.ResponseWriter, r *http.Request) {
	if existing := s.lookup(r.Header.Get(apidef.HeaderChallenger)); existing != nil {
		w.Header().Set(apidef.HeaderChallenger, existing.guid)
		w.WriteHeader(http.StatusOK)
		return
	}
	sess := newSession(uuid.NewString())
	sess.complete(chCreateChallenger)
	s.lock.Lock()
	s.sessions[sess.guid] = sess
	s.lock.Unlock()

	w.Header().Set(apidef.HeaderChallenger, sess.guid)
	w.Header().Set("Location", "/gui/challenges/"+sess.guid)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(chi.URLParam(r, "guid"))
	if sess == nil {
		writeErrors(w, http.StatusNotFound, formatJSON, "Challenger not found")
		return
	}
	sess.lock.Lock()
	defer sess.lock.Unlock()
	sess.complete(chGetChallengerProgress)
	writeJSON(w, http.StatusOK, sess.progress())
}

func (s *Server) putProgress(w http.ResponseWriter, r *http.Request) {
	guid := chi.URLParam(r, "guid")
	if _, err := uuid.Parse(guid); err != nil {
		writeErrors(w, http.StatusBadRequest, formatJSON, "Invalid challenger GUID")
		return
	}
	data, err := readBody(r)
	if err != nil {
		writeErrors(w, http.StatusRequestEntityTooLarge, formatJSON, apidef.RequestTooLarge)
		return
	}
	var p progress
	if err := json.Unmarshal(data, &p); err != nil {
		writeErrors(w, http.StatusBadRequest, formatJSON, "Invalid challenger progress: "+err.Error())
		return
	}
	if p.XChallenger != guid {
		writeErrors(w, http.StatusBadRequest, formatJSON, "xChallenger does not match the requested GUID")
		return
	}

	status := http.StatusOK
	s.lock.Lock()
	sess, ok := s.sessions[guid]
	if !ok {
		sess = newSession(guid)
		s.sessions[guid] = sess
		status = http.StatusCreated
	}
	s.lock.Unlock()

	sess.lock.Lock()
	defer sess.lock.Unlock()
	sess.restoreProgress(p)
	if status == http.StatusCreated {
		sess.complete(chCreateChallengerProgress)
	} else {
		sess.complete(chRestoreChallengerProgress)
	}
	writeJSON(w, status, sess.progress())
}

func (s *Server) getDatabase(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(chi.URLParam(r, "guid"))
	if sess == nil {
		writeErrors(w, http.StatusNotFound, formatJSON, "Challenger not found")
		return
	}
	sess.lock.Lock()
	defer sess.lock.Unlock()
	sess.complete(chGetChallengerDatabase)
	writeJSON(w, http.StatusOK, apidef.TodoList{Todos: sess.sortedTodos()})
}

func (s *Server) putDatabase(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(chi.URLParam(r, "guid"))
	if sess == nil {
		writeErrors(w, http.StatusNotFound, formatJSON, "Challenger not found")
		return
	}
	data, err := readBody(r)
	if err != nil {
		writeErrors(w, http.StatusRequestEntityTooLarge, formatJSON, apidef.RequestTooLarge)
		return
	}
	var list apidef.TodoList
	if err := json.Unmarshal(data, &list); err != nil {
		writeErrors(w, http.StatusBadRequest, formatJSON, "Invalid todo database: "+err.Error())
		return
	}
	if list.Todos == nil {
		list.Todos = []apidef.Todo{}
	}
	sess.lock.Lock()
	defer sess.lock.Unlock()
	sess.resetTodos(list.Todos)
	sess.complete(chPutChallengerDatabase)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getChallenges(sess *session, w http.ResponseWriter, r *http.Request) {
	sess.complete(chGetChallenges)
	writeJSON(w, http.StatusOK, sess.challenges())
}
