package fakeapi

import "fmt"

type challengeID int

// The challenges that the service tracks, in the order it lists them.
const (
	chCreateChallenger challengeID = iota + 1
	chGetChallenges
	chGetTodos
	chGetTodoNotPlural
	chGetTodo
	chGetTodoNotFound
	chGetTodosFiltered
	chHeadTodos
	chCreateTodo
	chCreateTodoDoneStatusInvalid
	chCreateTodoTitleTooLong
	chCreateTodoDescriptionTooLong
	chCreateTodoMaxContent
	chCreateTodoContentTooLong
	chCreateTodoExtraField
	chPutTodoCreate
	chAmendTodo
	chAmendTodoNotFound
	chPutTodoFull
	chPutTodoPartial
	chPutTodoNoTitle
	chPutTodoAmendID
	chDeleteTodo
	chOptionsTodos
	chGetTodosXML
	chGetTodosJSON
	chGetTodosAny
	chGetTodosXMLPreferred
	chGetTodosNoAccept
	chGetTodosUnacceptable
	chCreateTodoXML
	chCreateTodoJSON
	chCreateTodoUnsupported
	chGetChallengerProgress
	chRestoreChallengerProgress
	chCreateChallengerProgress
	chGetChallengerDatabase
	chPutChallengerDatabase
	chCreateTodoXMLToJSON
	chCreateTodoJSONToXML
	chDeleteHeartbeat
	chPatchHeartbeat
	chTraceHeartbeat
	chGetHeartbeat
	chOverrideDeleteHeartbeat
	chOverridePatchHeartbeat
	chOverrideTraceHeartbeat
	chTokenUnauthorized
	chTokenCreated
	chGetNoteForbidden
	chGetNoteUnauthorized
	chGetNote
	chPostNote
	chPostNoteUnauthorized
	chPostNoteForbidden
	chGetNoteBearer
	chPostNoteBearer
	chDeleteAllTodos
	chCreateAllTodos
)

var challengeNames = map[challengeID]string{
	chCreateChallenger:             "POST /challenger (201)",
	chGetChallenges:                "GET /challenges (200)",
	chGetTodos:                     "GET /todos (200)",
	chGetTodoNotPlural:             "GET /todo (404) not plural",
	chGetTodo:                      "GET /todos/{id} (200)",
	chGetTodoNotFound:              "GET /todos/{id} (404)",
	chGetTodosFiltered:             "GET /todos (200) ?filter",
	chHeadTodos:                    "HEAD /todos (200)",
	chCreateTodo:                   "POST /todos (201)",
	chCreateTodoDoneStatusInvalid:  "POST /todos (400) doneStatus",
	chCreateTodoTitleTooLong:       "POST /todos (400) title too long",
	chCreateTodoDescriptionTooLong: "POST /todos (400) description too long",
	chCreateTodoMaxContent:         "POST /todos (201) max out content",
	chCreateTodoContentTooLong:     "POST /todos (413) content too long",
	chCreateTodoExtraField:         "POST /todos (400) extra",
	chPutTodoCreate:                "PUT /todos/{id} (400)",
	chAmendTodo:                    "POST /todos/{id} (200)",
	chAmendTodoNotFound:            "POST /todos/{id} (404)",
	chPutTodoFull:                  "PUT /todos/{id} full (200)",
	chPutTodoPartial:               "PUT /todos/{id} partial (200)",
	chPutTodoNoTitle:               "PUT /todos/{id} no title (400)",
	chPutTodoAmendID:               "PUT /todos/{id} no amend id (400)",
	chDeleteTodo:                   "DELETE /todos/{id} (200)",
	chOptionsTodos:                 "OPTIONS /todos (200)",
	chGetTodosXML:                  "GET /todos (200) XML",
	chGetTodosJSON:                 "GET /todos (200) JSON",
	chGetTodosAny:                  "GET /todos (200) ANY",
	chGetTodosXMLPreferred:         "GET /todos (200) XML pref",
	chGetTodosNoAccept:             "GET /todos (200) no accept",
	chGetTodosUnacceptable:         "GET /todos (406)",
	chCreateTodoXML:                "POST /todos XML",
	chCreateTodoJSON:               "POST /todos JSON",
	chCreateTodoUnsupported:        "POST /todos (415)",
	chGetChallengerProgress:        "GET /challenger/guid (existing X-CHALLENGER)",
	chRestoreChallengerProgress:    "PUT /challenger/guid RESTORE",
	chCreateChallengerProgress:     "PUT /challenger/guid CREATE",
	chGetChallengerDatabase:        "GET /challenger/database/guid (200)",
	chPutChallengerDatabase:        "PUT /challenger/database/guid (Update)",
	chCreateTodoXMLToJSON:          "POST /todos XML to JSON",
	chCreateTodoJSONToXML:          "POST /todos JSON to XML",
	chDeleteHeartbeat:              "DELETE /heartbeat (405)",
	chPatchHeartbeat:               "PATCH /heartbeat (500)",
	chTraceHeartbeat:               "TRACE /heartbeat (501)",
	chGetHeartbeat:                 "GET /heartbeat (204)",
	chOverrideDeleteHeartbeat:      "POST /heartbeat as DELETE (405)",
	chOverridePatchHeartbeat:       "POST /heartbeat as PATCH (500)",
	chOverrideTraceHeartbeat:       "POST /heartbeat as Trace (501)",
	chTokenUnauthorized:            "POST /secret/token (401)",
	chTokenCreated:                 "POST /secret/token (201)",
	chGetNoteForbidden:             "GET /secret/note (403)",
	chGetNoteUnauthorized:          "GET /secret/note (401)",
	chGetNote:                      "GET /secret/note (200)",
	chPostNote:                     "POST /secret/note (200)",
	chPostNoteUnauthorized:         "POST /secret/note (401)",
	chPostNoteForbidden:            "POST /secret/note (403)",
	chGetNoteBearer:                "GET /secret/note (Bearer)",
	chPostNoteBearer:               "POST /secret/note (Bearer)",
	chDeleteAllTodos:               "DELETE /todos/{id} (200) all",
	chCreateAllTodos:               "POST /todos (201) all",
}

// challengeCount must stay in step with the constants above.
const challengeCount = int(chCreateAllTodos)

func (c challengeID) key() string {
	return fmt.Sprintf("%02d", int(c))
}

func (c challengeID) name() string {
	return challengeNames[c]
}

type challengeInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

type challengeList struct {
	Challenges []challengeInfo `json:"challenges"`
}
