package chat

import (
	"errors"
	"strings"
)

var ErrEmptyLine = errors.New("empty irc line")

// Line is one parsed IRC message with IRCv3 tags.
type Line struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string
}

// Nick returns the nickname part of the prefix.
func (l Line) Nick() string {
	if i := strings.IndexByte(l.Prefix, '!'); i >= 0 {
		return l.Prefix[:i]
	}
	return l.Prefix
}

// Trailing returns the last parameter, usually the message text.
func (l Line) Trailing() string {
	if len(l.Params) == 0 {
		return ""
	}
	return l.Params[len(l.Params)-1]
}

// ParseLine parses a single IRC line without its CRLF terminator.
func ParseLine(raw string) (Line, error) {
	raw = strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(raw) == "" {
		return Line{}, ErrEmptyLine
	}

	var line Line

	if strings.HasPrefix(raw, "@") {
		tags, rest, _ := strings.Cut(raw[1:], " ")
		line.Tags = parseTags(tags)
		raw = strings.TrimLeft(rest, " ")
	}

	if strings.HasPrefix(raw, ":") {
		prefix, rest, _ := strings.Cut(raw[1:], " ")
		line.Prefix = prefix
		raw = strings.TrimLeft(rest, " ")
	}

	for raw != "" {
		if strings.HasPrefix(raw, ":") {
			line.Params = append(line.Params, raw[1:])
			break
		}
		token, rest, _ := strings.Cut(raw, " ")
		if line.Command == "" {
			line.Command = strings.ToUpper(token)
		} else {
			line.Params = append(line.Params, token)
		}
		raw = strings.TrimLeft(rest, " ")
	}

	if line.Command == "" {
		return Line{}, ErrEmptyLine
	}
	return line, nil
}

var tagEscapes = strings.NewReplacer(`\:`, ";", `\s`, " ", `\\`, `\`, `\r`, "\r", `\n`, "\n")

func parseTags(raw string) map[string]string {
	tags := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		tags[key] = tagEscapes.Replace(value)
	}
	return tags
}
