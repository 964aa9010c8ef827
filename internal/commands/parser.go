package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnsupported        = errors.New("command is not supported")
	ErrMissingArgument    = errors.New("missing argument")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnexpectedArgument = errors.New("unexpected argument")
)

// ParseError reports why a command line could not be turned into a Command.
type ParseError struct {
	Line   string // Input as typed
	Reason string // User-facing description
	Err    error  // One of the Err* sentinels
}

func (e *ParseError) Error() string {
	return e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse turns a command line (without any leading slash) into a Command.
//
// The line is trimmed and lower-cased, then split on whitespace. The first
// token picks the command, the rest are matched against its arguments:
//
//	ban asdf                 -> Ban{"asdf", nil}
//	ban asdf spamming links  -> Ban{"asdf", "spamming links"}
//	timeout asdf 60          -> Timeout{"asdf", 60, nil}
//	followers                -> Followers{nil}
//	title some new title     -> Title{"some new title"}
//
// Quoting and escaping are not supported. Every failure is a *ParseError.
func Parse(line string) (Command, error) {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(tokens) == 0 {
		return nil, &ParseError{Line: line, Reason: "empty command", Err: ErrUnsupported}
	}

	name, args := tokens[0], tokens[1:]
	p := parser{line: line, name: name, args: args}

	switch name {
	case "clear":
		return p.noArgs(Clear{})
	case "ban":
		return p.ban()
	case "unban":
		return p.unban()
	case "timeout":
		return p.timeout()
	case "raid":
		return p.raid()
	case "unraid":
		return p.noArgs(Unraid{})
	case "followers":
		return p.followers()
	case "followersoff":
		return p.noArgs(FollowersOff{})
	case "slow":
		return p.slow()
	case "slowoff":
		return p.noArgs(SlowOff{})
	case "subscribers":
		return p.noArgs(Subscribers{})
	case "subscribersoff":
		return p.noArgs(SubscribersOff{})
	case "emoteonly":
		return p.noArgs(EmoteOnly{})
	case "emoteonlyoff":
		return p.noArgs(EmoteOnlyOff{})
	case "title":
		return Title{Text: strings.Join(args, " ")}, nil
	case "category":
		return Category{Text: strings.Join(args, " ")}, nil
	}

	return nil, &ParseError{
		Line:   line,
		Reason: fmt.Sprintf("command %q is not supported", name),
		Err:    ErrUnsupported,
	}
}

type parser struct {
	line string
	name string
	args []string
}

func (p parser) fail(err error, format string, a ...any) error {
	return &ParseError{
		Line:   p.line,
		Reason: p.name + ": " + fmt.Sprintf(format, a...),
		Err:    err,
	}
}

func (p parser) missing(what string) error {
	return p.fail(ErrMissingArgument, "missing %s", what)
}

func (p parser) extra(args []string) error {
	return p.fail(ErrUnexpectedArgument, "unexpected arguments %q", strings.Join(args, " "))
}

func (p parser) noArgs(cmd Command) (Command, error) {
	if len(p.args) != 0 {
		return nil, p.extra(p.args)
	}
	return cmd, nil
}

// integer parses a non-negative decimal argument. One leading '+' is allowed.
func (p parser) integer(what, raw string) (int, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, strconv.IntSize-1)
	if err != nil {
		return 0, p.fail(ErrInvalidArgument, "%s %q is not a non-negative integer", what, raw)
	}
	return int(n), nil
}

func (p parser) ban() (Command, error) {
	switch len(p.args) {
	case 0:
		return nil, p.missing("username")
	case 1:
		return Ban{Username: p.args[0]}, nil
	default:
		return Ban{Username: p.args[0], Reason: rest(p.args[1:])}, nil
	}
}

func (p parser) unban() (Command, error) {
	switch len(p.args) {
	case 0:
		return nil, p.missing("username")
	case 1:
		return Unban{Username: p.args[0]}, nil
	default:
		return nil, p.extra(p.args[1:])
	}
}

func (p parser) timeout() (Command, error) {
	switch len(p.args) {
	case 0:
		return nil, p.missing("username")
	case 1:
		return nil, p.missing("duration")
	}

	duration, err := p.integer("duration", p.args[1])
	if err != nil {
		return nil, err
	}

	cmd := Timeout{Username: p.args[0], Duration: duration}
	if len(p.args) > 2 {
		cmd.Reason = rest(p.args[2:])
	}
	return cmd, nil
}

func (p parser) raid() (Command, error) {
	switch len(p.args) {
	case 0:
		return nil, p.missing("username")
	case 1:
		return Raid{Username: p.args[0]}, nil
	default:
		return nil, p.extra(p.args[1:])
	}
}

func (p parser) followers() (Command, error) {
	switch len(p.args) {
	case 0:
		return Followers{}, nil
	case 1:
		duration, err := p.integer("duration", p.args[0])
		if err != nil {
			return nil, err
		}
		return Followers{MinDuration: &duration}, nil
	default:
		return nil, p.extra(p.args[1:])
	}
}

func (p parser) slow() (Command, error) {
	switch len(p.args) {
	case 0:
		return nil, p.missing("duration")
	case 1:
		seconds, err := p.integer("duration", p.args[0])
		if err != nil {
			return nil, err
		}
		return Slow{Seconds: seconds}, nil
	default:
		return nil, p.extra(p.args[1:])
	}
}

func rest(tokens []string) *string {
	s := strings.Join(tokens, " ")
	return &s
}
