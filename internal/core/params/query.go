package params

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/models"
)

var knownMetrics = []string{"revenue", "sales", "profit", "expenses", "income", "cost"}

// ExtractMetric finds the first financial metric mentioned in the query,
// defaulting to revenue.
func ExtractMetric(query string) string {
	lowered := strings.ToLower(query)
	for _, metric := range knownMetrics {
		if strings.Contains(lowered, metric) {
			return metric
		}
	}
	return "revenue"
}

var urlPattern = regexp.MustCompile(`http[s]?://(?:[a-zA-Z0-9$\-_@.&+!*(),]|%[0-9a-fA-F]{2})+`)

// ExtractURLs returns every URL found in the query, in order.
func ExtractURLs(query string) []string {
	return urlPattern.FindAllString(query, -1)
}

// ConversationContext renders the last five messages into a compact
// transcript, each message truncated to 200 characters.
func ConversationContext(messages []models.Message) string {
	recent := messages
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	var b strings.Builder
	for _, msg := range recent {
		b.WriteString(fmt.Sprintf("%s: %s...\n", roleLabel(msg.Role), truncate(msg.Content, 200)))
	}
	return b.String()
}

// FormatHistory renders a full message list for prompting, each message
// truncated to 100 characters.
func FormatHistory(messages []models.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(fmt.Sprintf("%s: %s...\n", roleLabel(msg.Role), truncate(msg.Content, 100)))
	}
	return b.String()
}

func roleLabel(role models.Role) string {
	if role == models.RoleHuman {
		return "User"
	}
	return "Assistant"
}

// truncate cuts to n characters on rune boundaries so multi-byte text
// stays valid.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
