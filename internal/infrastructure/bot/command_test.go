package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   Command
		wantOK bool
	}{
		{"No arguments", "/list", Command{Name: "list", Args: []string{}}, true},
		{"Arguments", "/exchange 10 USD to CAD", Command{Name: "exchange", Args: []string{"10", "USD", "to", "CAD"}}, true},
		{"Bot mention", "/history@quotes_bot USD/CAD over 7 days", Command{Name: "history", Args: []string{"USD/CAD", "over", "7", "days"}}, true},
		{"Mixed case and extra spaces", "  /LIST   ", Command{Name: "list", Args: []string{}}, true},
		{"Plain text", "hello there", Command{}, false},
		{"Empty", "", Command{}, false},
		{"Bare slash", "/", Command{}, false},
		{"Only a mention", "/@quotes_bot", Command{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
