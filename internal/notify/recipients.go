package notify

import (
	"fmt"
	"strings"

	"consignment-backend/internal/models"
)

// SystemRecipient: the operator mailbox copied on every recall, independent
// of notification rules.
const SystemRecipient = "recalls@westworldtelecom.com"

// ResolveRecipients returns the addresses to notify for one tenant's recall:
// the tenant's own rules, wildcard "ALL" rules, and the system mailbox.
// Duplicates are collapsed case-insensitively, first spelling wins.
func ResolveRecipients(rules []models.NotificationRule, company string) []string {
	recipients := []string{SystemRecipient}
	seen := map[string]bool{strings.ToLower(SystemRecipient): true}

	for _, r := range rules {
		if !strings.EqualFold(r.Company, company) && r.Company != models.NotificationRuleAll {
			continue
		}
		email := strings.TrimSpace(r.Email)
		if email == "" {
			continue
		}
		key := strings.ToLower(email)
		if seen[key] {
			continue
		}
		seen[key] = true
		recipients = append(recipients, email)
	}

	return recipients
}

// RecallMessage builds the subject and body for a recall submission.
func RecallMessage(company, requestedBy string, unitCount int, comment string) (subject, body string) {
	subject = fmt.Sprintf("Recall request: %s (%d units)", company, unitCount)

	var b strings.Builder
	fmt.Fprintf(&b, "A recall request was submitted for %s.\r\n\r\n", company)
	fmt.Fprintf(&b, "Requested by: %s\r\n", requestedBy)
	fmt.Fprintf(&b, "Units: %d\r\n", unitCount)
	if comment != "" {
		fmt.Fprintf(&b, "Comment: %s\r\n", comment)
	}
	b.WriteString("\r\nLog in to the portal to review the pending recall log.\r\n")

	return subject, b.String()
}
