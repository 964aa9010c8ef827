package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestParse_ValidCommands(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Command
	}{
		{name: "clear", input: "clear", expected: Clear{}},
		{name: "ban without reason", input: "ban asdf", expected: Ban{Username: "asdf"}},
		{
			name:     "ban with reason",
			input:    "ban asdf user was being very not good",
			expected: Ban{Username: "asdf", Reason: strPtr("user was being very not good")},
		},
		{name: "unban", input: "unban asdf", expected: Unban{Username: "asdf"}},
		{name: "timeout without reason", input: "timeout asdf 60", expected: Timeout{Username: "asdf", Duration: 60}},
		{
			name:     "timeout with reason",
			input:    "timeout asdf 60 not a good user",
			expected: Timeout{Username: "asdf", Duration: 60, Reason: strPtr("not a good user")},
		},
		{name: "timeout zero", input: "timeout asdf 0", expected: Timeout{Username: "asdf", Duration: 0}},
		{name: "timeout explicit plus", input: "timeout asdf +60", expected: Timeout{Username: "asdf", Duration: 60}},
		{name: "raid", input: "raid asdf", expected: Raid{Username: "asdf"}},
		{name: "unraid", input: "unraid", expected: Unraid{}},
		{name: "followers without duration", input: "followers", expected: Followers{}},
		{name: "followers with duration", input: "followers 600", expected: Followers{MinDuration: intPtr(600)}},
		{name: "followers off", input: "followersoff", expected: FollowersOff{}},
		{name: "slow", input: "slow 30", expected: Slow{Seconds: 30}},
		{name: "slow off", input: "slowoff", expected: SlowOff{}},
		{name: "subscribers", input: "subscribers", expected: Subscribers{}},
		{name: "subscribers off", input: "subscribersoff", expected: SubscribersOff{}},
		{name: "emote only", input: "emoteonly", expected: EmoteOnly{}},
		{name: "emote only off", input: "emoteonlyoff", expected: EmoteOnlyOff{}},
		{name: "title", input: "title late night chess", expected: Title{Text: "late night chess"}},
		{name: "empty title", input: "title", expected: Title{Text: ""}},
		{name: "category", input: "category just chatting", expected: Category{Text: "just chatting"}},
		{name: "empty category", input: "category", expected: Category{Text: ""}},
		{name: "surrounding whitespace", input: "   ban   asdf   spam  ", expected: Ban{Username: "asdf", Reason: strPtr("spam")}},
		{name: "upper case", input: "BAN ASDF", expected: Ban{Username: "asdf"}},
		{name: "upper case arguments are lowered", input: "Title Hello World", expected: Title{Text: "hello world"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		reason   string
	}{
		{name: "ban without username", input: "ban", sentinel: ErrMissingArgument, reason: "ban: missing username"},
		{name: "unban without username", input: "unban", sentinel: ErrMissingArgument, reason: "unban: missing username"},
		{name: "raid without username", input: "raid", sentinel: ErrMissingArgument, reason: "raid: missing username"},
		{name: "timeout without username", input: "timeout", sentinel: ErrMissingArgument, reason: "timeout: missing username"},
		{name: "timeout without duration", input: "timeout asdf", sentinel: ErrMissingArgument, reason: "timeout: missing duration"},
		{name: "timeout bad duration", input: "timeout asdf notanumber", sentinel: ErrInvalidArgument},
		{name: "timeout negative duration", input: "timeout asdf -5", sentinel: ErrInvalidArgument},
		{name: "timeout double plus", input: "timeout asdf ++5", sentinel: ErrInvalidArgument},
		{name: "slow without duration", input: "slow", sentinel: ErrMissingArgument},
		{name: "slow bad duration", input: "slow fast", sentinel: ErrInvalidArgument},
		{name: "followers bad duration", input: "followers soon", sentinel: ErrInvalidArgument},
		{name: "followers too many", input: "followers 10 20", sentinel: ErrUnexpectedArgument},
		{name: "unban extra", input: "unban asdf qwer", sentinel: ErrUnexpectedArgument},
		{name: "clear with arguments", input: "clear everything", sentinel: ErrUnexpectedArgument},
		{name: "unraid with arguments", input: "unraid asdf", sentinel: ErrUnexpectedArgument},
		{
			name:     "unsupported",
			input:    "unsupported_command",
			sentinel: ErrUnsupported,
			reason:   `command "unsupported_command" is not supported`,
		},
		{name: "empty", input: "   ", sentinel: ErrUnsupported, reason: "empty command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, cmd)
			assert.True(t, errors.Is(err, tt.sentinel), "expected %v, got %v", tt.sentinel, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.input, parseErr.Line)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, parseErr.Error())
			}
		})
	}
}

func TestParse_InvalidDurationNamesArgument(t *testing.T) {
	_, err := Parse("timeout asdf notanumber")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"notanumber"`)
	assert.Contains(t, err.Error(), "duration")
}

func TestParse_CaseInsensitive(t *testing.T) {
	upper, err := Parse("BAN asdf")
	require.NoError(t, err)
	lower, err := Parse("ban asdf")
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
}

func TestParse_Idempotent(t *testing.T) {
	for _, line := range []string{"timeout asdf 60 spam", "followers 5", "category art", "clear"} {
		first, err := Parse(line)
		require.NoError(t, err)
		second, err := Parse(line)
		require.NoError(t, err)
		assert.Equal(t, first, second, line)
	}
}

func TestNames_AllParse(t *testing.T) {
	args := map[string]string{
		"ban": " a", "unban": " a", "timeout": " a 1", "raid": " a", "slow": " 1",
	}
	for _, name := range Names() {
		cmd, err := Parse(name + args[name])
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
