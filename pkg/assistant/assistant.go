package assistant

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyMessage is returned when the user message is blank.
var ErrEmptyMessage = errors.New("assistant: message is required")

// Assistant answers chat messages in the context of a department.
type Assistant interface {
	SendMessage(ctx context.Context, text, department string) (string, error)
}

// Rule maps a lowercase substring to a canned response. The response may
// use %s, which is replaced by the department label.
type Rule struct {
	Match    string
	Response string
}

// DefaultRules are the canned responses used by NewTemplateAssistant.
var DefaultRules = []Rule{
	{Match: "sales", Response: "Sales for %s are summarized in the analysis view. Look at the monthly breakdown to spot the strongest periods."},
	{Match: "inventory", Response: "Inventory for %s is listed per product. Items close to zero stock are flagged for reorder."},
	{Match: "review", Response: "Reviews for %s are aggregated into an average rating. Open the reviews tab to read individual comments."},
	{Match: "trend", Response: "Trends for %s compare the latest upload with earlier periods. Upload more files to extend the history."},
	{Match: "help", Response: "Ask about sales, inventory, reviews or trends for %s."},
}

// DefaultResponse answers messages no rule matched.
const DefaultResponse = "I can help you explore %s. Try asking about sales, inventory or reviews."

// TemplateAssistant answers with canned templates selected by substring match.
type TemplateAssistant struct {
	rules    []Rule
	fallback string
}

// NewTemplateAssistant builds an assistant over rules; nil rules use DefaultRules.
func NewTemplateAssistant(rules []Rule) *TemplateAssistant {
	if rules == nil {
		rules = DefaultRules
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		match := strings.ToLower(strings.TrimSpace(r.Match))
		if match == "" {
			continue
		}
		normalized = append(normalized, Rule{Match: match, Response: r.Response})
	}
	return &TemplateAssistant{rules: normalized, fallback: DefaultResponse}
}

// SendMessage returns the first rule response whose match occurs in text.
func (a *TemplateAssistant) SendMessage(ctx context.Context, text, department string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", ErrEmptyMessage
	}
	label := departmentLabel(department)
	for _, r := range a.rules {
		if strings.Contains(text, r.Match) {
			return format(r.Response, label), nil
		}
	}
	return format(a.fallback, label), nil
}

func departmentLabel(department string) string {
	department = strings.TrimSpace(department)
	if department == "" {
		return "your data"
	}
	return department
}

func format(template, label string) string {
	return strings.ReplaceAll(template, "%s", label)
}
