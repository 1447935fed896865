package challengetests

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPrintOrdersChallengesNumerically(t *testing.T) {
	p := Progress{
		Total: 59,
		Completed: map[string]string{
			"10": "GET /todos (200)",
			"2":  "GET /challenges (200)",
			"1":  "POST /challenger (201)",
			"b":  "second",
			"a":  "first",
		},
		Sessions: []string{"one"},
	}
	var out bytes.Buffer
	p.Print(&out, true)
	assert.Equal(t, "Challenges completed: 5/59 (sessions: 1)\n"+
		"  1 POST /challenger (201)\n"+
		"  2 GET /challenges (200)\n"+
		"  10 GET /todos (200)\n"+
		"  a first\n"+
		"  b second\n", out.String())

	out.Reset()
	p.Print(&out, false)
	assert.Equal(t, "Challenges completed: 5/59 (sessions: 1)\n", out.String())
}
