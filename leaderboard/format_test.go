package leaderboard

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onnwee/wager-leaderboard/hypeapi"
)

func bet(name string, wagered int64) hypeapi.Bet {
	return hypeapi.Bet{User: &hypeapi.User{Username: name}, Wagered: decimal.NewFromInt(wagered)}
}

func statsWith(n int) *hypeapi.Stats {
	s := &hypeapi.Stats{
		DateRange:      hypeapi.DateRange{From: "2024-05-01", To: "2024-05-17"},
		SummarizedBets: []hypeapi.Bet{},
	}
	for i := 0; i < n; i++ {
		s.SummarizedBets = append(s.SummarizedBets, bet(fmt.Sprintf("user%02d", i), int64((n-i)*10000)))
	}
	return s
}

func TestFormatKeepsFirstFifteenInOrder(t *testing.T) {
	embed := Format(statsWith(20), FormatOptions{})
	if embed == nil {
		t.Fatal("Format returned nil")
	}
	// prize table + 15 entries
	if len(embed.Fields) != 16 {
		t.Fatalf("fields = %d, want 16", len(embed.Fields))
	}
	for i, f := range embed.Fields[1:] {
		want := fmt.Sprintf("#%d - user%02d", i+1, i)
		if f.Name != want {
			t.Errorf("field %d name = %q, want %q", i, f.Name, want)
		}
		if f.Inline {
			t.Errorf("field %d should not be inline", i)
		}
	}
}

func TestFormatDoesNotResort(t *testing.T) {
	s := &hypeapi.Stats{SummarizedBets: []hypeapi.Bet{bet("low", 100), bet("high", 999900)}}
	embed := Format(s, FormatOptions{})
	if embed.Fields[1].Name != "#1 - low" || embed.Fields[2].Name != "#2 - high" {
		t.Errorf("server order not preserved: %q, %q", embed.Fields[1].Name, embed.Fields[2].Name)
	}
}

func TestDisplayXP(t *testing.T) {
	tests := []struct {
		wagered string
		want    string
	}{
		{"1234", "12"},
		{"199", "1"},
		{"0", "0"},
		{"99", "0"},
		{"100", "1"},
		{"123456789", "1234567"},
		{"1299.75", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.wagered, func(t *testing.T) {
			d := decimal.RequireFromString(tt.wagered)
			if got := DisplayXP(d); got != tt.want {
				t.Errorf("DisplayXP(%s) = %s, want %s", tt.wagered, got, tt.want)
			}
		})
	}
}

func TestFormatEntryValue(t *testing.T) {
	s := &hypeapi.Stats{SummarizedBets: []hypeapi.Bet{bet("a", 1234), bet("b", 199), bet("c", 0)}}
	embed := Format(s, FormatOptions{})
	want := []string{"12 XP", "1 XP", "0 XP"}
	for i, w := range want {
		if got := embed.Fields[i+1].Value; got != w {
			t.Errorf("entry %d value = %q, want %q", i, got, w)
		}
	}
}

func TestFormatUnknownUsername(t *testing.T) {
	s := &hypeapi.Stats{SummarizedBets: []hypeapi.Bet{
		{User: &hypeapi.User{}, Wagered: decimal.NewFromInt(500)},
		{User: nil, Wagered: decimal.NewFromInt(500)},
	}}
	embed := Format(s, FormatOptions{})
	for i, f := range embed.Fields[1:] {
		want := fmt.Sprintf("#%d - Unknown", i+1)
		if f.Name != want {
			t.Errorf("field %d name = %q, want %q", i, f.Name, want)
		}
	}
}

func TestFormatHeaderAndPrizes(t *testing.T) {
	now := time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)
	embed := Format(statsWith(1), FormatOptions{Now: now})

	if embed.Title != "🏆 Current Wager Leaderboard" {
		t.Errorf("Title = %q", embed.Title)
	}
	if embed.Color != 0x00AE86 {
		t.Errorf("Color = %#x, want 0x00AE86", embed.Color)
	}
	if embed.Description != "From **5/1/2024** to **5/17/2024**" {
		t.Errorf("Description = %q", embed.Description)
	}
	if embed.Timestamp != "2024-05-17T09:00:00Z" {
		t.Errorf("Timestamp = %q", embed.Timestamp)
	}
	prizes := embed.Fields[0]
	if prizes.Name != "🎁 Prizes" || !strings.Contains(prizes.Value, "$1000") || !strings.Contains(prizes.Value, "2 Random Winners") {
		t.Errorf("unexpected prize field: %+v", prizes)
	}
}

func TestFormatPrizeTableIndependentOfInput(t *testing.T) {
	a := Format(statsWith(1), FormatOptions{})
	b := Format(statsWith(20), FormatOptions{})
	if !reflect.DeepEqual(a.Fields[0], b.Fields[0]) {
		t.Errorf("prize field differs between inputs: %+v vs %+v", a.Fields[0], b.Fields[0])
	}
}

func TestFormatIdempotent(t *testing.T) {
	s := statsWith(18)
	opts := FormatOptions{Now: time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)}
	first := Format(s, opts)
	second := Format(s, opts)
	if !reflect.DeepEqual(first, second) {
		t.Error("formatting the same stats twice produced different embeds")
	}
}

func TestFormatNoData(t *testing.T) {
	if Format(nil, FormatOptions{}) != nil {
		t.Error("nil stats should produce no embed")
	}
	missing := &hypeapi.Stats{DateRange: hypeapi.DateRange{From: "2024-05-01", To: "2024-05-02"}}
	if Format(missing, FormatOptions{}) != nil {
		t.Error("stats without summarizedBets should produce no embed")
	}
}

func TestFormatEmptyList(t *testing.T) {
	embed := Format(statsWith(0), FormatOptions{})
	if embed == nil {
		t.Fatal("empty but present bets list should still produce an embed")
	}
	if len(embed.Fields) != 1 {
		t.Errorf("fields = %d, want only the prize table", len(embed.Fields))
	}
}

func TestFormatLimit(t *testing.T) {
	tests := []struct {
		limit, entries, want int
	}{
		{5, 20, 5},
		{15, 3, 3},
		{40, 30, 24},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit=%d", tt.limit), func(t *testing.T) {
			embed := Format(statsWith(tt.entries), FormatOptions{Limit: tt.limit})
			if got := len(embed.Fields) - 1; got != tt.want {
				t.Errorf("entries shown = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDisplayDate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2024-05-01", "5/1/2024"},
		{"2024-12-31T00:00:00.000Z", "12/31/2024"},
		{"yesterday", "yesterday"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := displayDate(tt.in); got != tt.want {
			t.Errorf("displayDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatClipsLongNames(t *testing.T) {
	s := &hypeapi.Stats{SummarizedBets: []hypeapi.Bet{bet(strings.Repeat("x", 400), 100)}}
	embed := Format(s, FormatOptions{})
	if n := len([]rune(embed.Fields[1].Name)); n != 256 {
		t.Errorf("field name length = %d, want 256", n)
	}
}
