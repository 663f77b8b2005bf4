package presence

import (
	"fmt"
	"strings"
)

const (
	commandVCHistory = "vchistory"
	commandVCStats   = "vcstats"

	optionLimit  = "limit"
	optionMember = "member"

	slashCommandHistoryDescription = "Show recent voice channel join/leave history."
	slashCommandStatsDescription   = "Show total voice channel time for a member."
	slashOptionLimitDescription    = "How many entries to show."
	slashOptionMemberDescription   = "Member to look up. Defaults to you."

	messageEphemeralWrongGuild     = ":warning: **This command cannot be used in this server.**"
	messageEphemeralUnknownCommand = ":warning: **Unknown command.**"
	messageEphemeralHistoryFailed  = ":warning: **Failed to read voice history.**"
	messageNoHistory               = "No voice history yet."

	messageHistoryTitle      = ":scroll: Voice Channel History"
	messageStatsTitleFormat  = ":bar_chart: Voice Channel Stats for %s"
	messageStatsTotalFormat  = ":clock3: Total VC Time: **%s**"
	embedDescriptionMaxRunes = 4096
	codeFence                = "```"
)

func statsTitle(name string) string {
	return fmt.Sprintf(messageStatsTitleFormat, name)
}

func statsDescription(formatted string) string {
	return fmt.Sprintf(messageStatsTotalFormat, formatted)
}

func historyBlock(lines []string) string {
	for len(lines) > 0 {
		body := codeFence + "\n" + strings.Join(lines, "\n") + "\n" + codeFence
		if len([]rune(body)) <= embedDescriptionMaxRunes {
			return body
		}
		lines = lines[1:]
	}
	return codeFence + "\n" + codeFence
}
