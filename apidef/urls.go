package apidef

import (
	"strconv"
)

// Resource paths of the challenge API.
const (
	PathChallenger         = "/challenger"
	PathChallengerDatabase = "/challenger/database"
	PathChallenges         = "/challenges"
	PathTodos              = "/todos"
	PathTodo               = "/todo"
	PathHeartbeat          = "/heartbeat"
	PathSecretToken        = "/secret/token"
	PathSecretNote         = "/secret/note"
)

const (
	HeaderChallenger     = "X-CHALLENGER"
	HeaderAuthToken      = "X-AUTH-TOKEN"
	HeaderMethodOverride = "X-HTTP-Method-Override"
)

const (
	MediaTypeJSON = "application/json"
	MediaTypeXML  = "application/xml"
	MediaTypeAny  = "*/*"
)

func TodoPath(id int) string {
	return PathTodos + "/" + strconv.Itoa(id)
}

// ChallengerPath is the progress resource of a challenger session.
func ChallengerPath(guid string) string {
	return PathChallenger + "/" + guid
}

// DatabasePath is the todo store of a challenger session.
func DatabasePath(guid string) string {
	return PathChallengerDatabase + "/" + guid
}
