// Package bot parses chat commands and turns them into replies.
package bot

import "strings"

// Request is one incoming chat message
type Request struct {
	ChatID int64
	Text   string
}

// Command is a parsed "/name arg arg..." message
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a "/name[@botname] args..." message. ok is false when text
// is not a command.
func ParseCommand(text string) (cmd Command, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}, false
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return Command{}, false
	}

	return Command{Name: strings.ToLower(name), Args: fields[1:]}, true
}
