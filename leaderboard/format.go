package leaderboard

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"github.com/onnwee/wager-leaderboard/hypeapi"
)

const (
	Title = "🏆 Current Wager Leaderboard"
	Color = 0x00AE86

	// DefaultLimit is how many ranked entries are shown.
	DefaultLimit = 15
	// Discord allows 25 fields per embed; one is taken by the prize table.
	maxEntryFields = 24
	maxFieldName   = 256

	UnknownUser = "Unknown"
	XPUnit      = "XP"

	prizeFieldName = "🎁 Prizes"
	prizeTable     = "🏆 **1st:** $1000\n🥈 **2nd:** $500\n🥉 **3rd:** $300\n🎲 **2 Random Winners:** $100 each"

	displayDateLayout = "1/2/2006"
)

var hundred = decimal.NewFromInt(100)

// FormatOptions controls presentation details that don't come from the stats payload.
type FormatOptions struct {
	// Limit is the number of entries shown; 0 means DefaultLimit.
	Limit int
	// Now stamps the embed; the zero value leaves the timestamp empty.
	Now time.Time
}

// Format renders stats as a leaderboard embed. It returns nil when stats is nil
// or carries no summarizedBets field. Entries keep the server's order and only
// the first Limit are shown.
func Format(stats *hypeapi.Stats, opts FormatOptions) *discordgo.MessageEmbed {
	if !stats.HasEntries() {
		return nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxEntryFields {
		limit = maxEntryFields
	}
	bets := stats.SummarizedBets
	if len(bets) > limit {
		bets = bets[:limit]
	}

	embed := &discordgo.MessageEmbed{
		Title: Title,
		Description: fmt.Sprintf("From **%s** to **%s**",
			displayDate(stats.DateRange.From), displayDate(stats.DateRange.To)),
		Color: Color,
	}
	if !opts.Now.IsZero() {
		embed.Timestamp = opts.Now.Format(time.RFC3339)
	}

	embed.Fields = make([]*discordgo.MessageEmbedField, 0, len(bets)+1)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   prizeFieldName,
		Value:  prizeTable,
		Inline: false,
	})
	for i, b := range bets {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   clip(fmt.Sprintf("#%d - %s", i+1, DisplayName(b)), maxFieldName),
			Value:  fmt.Sprintf("%s %s", DisplayXP(b.Wagered), XPUnit),
			Inline: false,
		})
	}
	return embed
}

// DisplayXP is floor(wagered / 100), truncated rather than rounded.
func DisplayXP(wagered decimal.Decimal) string {
	return wagered.Div(hundred).Floor().String()
}

// DisplayName returns the bettor's username or UnknownUser.
func DisplayName(b hypeapi.Bet) string {
	if name := b.Username(); name != "" {
		return name
	}
	return UnknownUser
}

// displayDate renders a YYYY-MM-DD (optionally followed by a time part) as
// M/D/YYYY using the calendar fields as given. Anything else is shown verbatim.
func displayDate(s string) string {
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return s
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
