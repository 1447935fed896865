package apidef

import "strings"

// Limits enforced by the service.
const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 200
	MaxBodyBytes         = 5000
	MaxTodos             = 20
	InitialTodoCount     = 10
	ChallengeCount       = 59
)

const DefaultTodoTitle = "Go for a walk"

// Credentials for POST /secret/token, base64-encoded as they appear in a Basic Authorization
// header: "admin:password" and "admin:wrong".
const (
	AdminCredentials   = "YWRtaW46cGFzc3dvcmQ="
	InvalidCredentials = "YWRtaW46d3Jvbmc="
	AdminUsername      = "admin"
	AdminPassword      = "password"
)

// LongTitle is 56 characters, over MaxTitleLength.
const LongTitle = "Lorem ipsum dolor sit amet, consectetur adipiscing elit."

// LongDescription is 231 characters, over MaxDescriptionLength.
const LongDescription = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor " +
	"incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation " +
	"ullamco laboris nisi ut aliquip ex ea commodo consequat."

// MaxLengthTitle and MaxLengthDescription are exactly at the service's length limits.
var (
	MaxLengthTitle       = LongTitle[:MaxTitleLength]
	MaxLengthDescription = LongDescription[:MaxDescriptionLength]
)

const loremParagraph = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Vestibulum at suscipit odio. " +
	"Nulla sollicitudin, orci at ornare malesuada, elit diam blandit lorem, vitae aliquet augue sapien mattis " +
	"ipsum. Cras dui nisi, ultricies vitae turpis id, placerat feugiat nunc. Integer justo erat, pulvinar sit " +
	"amet tristique et, tincidunt a ante. Maecenas odio libero, congue ut purus vitae, pellentesque " +
	"sollicitudin turpis. Proin ut eleifend erat, sed volutpat ligula. Proin feugiat dolor diam, sed dictum " +
	"neque iaculis eget."

// ExtraLongString makes a request body larger than MaxBodyBytes on its own.
var ExtraLongString = strings.TrimSuffix(strings.Repeat(loremParagraph+"\n\n", 12), "\n\n")

// XMLTodo is a todo in the service's XML representation.
const XMLTodo = `
  <todo>
    <doneStatus>true</doneStatus>
    <title>file paperwork today</title>
  </todo>
`

const XMLTodoTitle = "file paperwork today"

// SecretNote is the note stored through POST /secret/note.
const SecretNote = "my note"

// UnsupportedMediaType is a media type that the service neither accepts nor produces.
const UnsupportedMediaType = "application/bob"

// UnrecognisedAcceptType is an Accept value that the service cannot satisfy.
const UnrecognisedAcceptType = "application/gzip"

// MissingTodoID is an ID that is never assigned to a todo.
const MissingTodoID = 9999
