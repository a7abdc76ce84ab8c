package flow

import (
	"fmt"
	"strings"

	"github.com/jackle3/moderation-api/models"
)

const reportConfirmationMessage = `Thank you for helping keep our community safe. Our moderation team will review your report and take appropriate action.

To protect yourself from unwanted interactions, you can block the reported user. If you believe your account security may be compromised, we strongly recommend:
• Changing your account password
• Updating your account email
• Enabling two-factor authentication

We will notify you via private message once we have reviewed your report.`

const reportTimeoutMessage = "Your report timed out before it was submitted and has been cancelled. You can start a new report at any time."

const reportCancelledMessage = "Report cancelled."

// quoteMessage truncates message text and places it inside a block quote.
func quoteMessage(text string) string {
	if text == "" {
		text = "[No text content]"
	}
	runes := []rune(text)
	if len(runes) > 1024 {
		text = string(runes[:1021]) + "..."
	}
	return ">>> " + text
}

func promptOptions(nodes []models.TaxonomyNode) []PromptOption {
	opts := make([]PromptOption, 0, len(nodes))
	for _, n := range nodes {
		opts = append(opts, PromptOption{Key: n.Key, Label: n.Label, Description: n.Description})
	}
	return opts
}

func categoryPrompt(t models.Taxonomy, target models.TargetMessage) PromptSpec {
	return PromptSpec{
		Title:   "Report Message",
		Body:    "What kind of content are you reporting?\n" + quoteMessage(target.Text),
		Options: promptOptions(t.Categories),
	}
}

func subtypePrompt(node models.TaxonomyNode) PromptSpec {
	return PromptSpec{
		Title:   fmt.Sprintf("Select %s Type", node.Label),
		Body:    fmt.Sprintf("What kind of %s is this?", strings.ToLower(node.Label)),
		Options: promptOptions(node.Subtypes),
	}
}

func notePrompt() PromptSpec {
	return PromptSpec{
		Title: "Additional Information",
		Body:  "Would you like to provide any additional information about this report?",
		Options: []PromptOption{
			{Key: "add_info", Label: "Add Information"},
			{Key: "skip", Label: "Skip"},
		},
	}
}

// categoryPathLabels resolves path keys to display labels. Unresolvable
// keys fall back to the raw key so rendering never fails.
func categoryPathLabels(t models.Taxonomy, path []string) string {
	if len(path) == 0 {
		return "Unclassified"
	}
	labels := make([]string, 0, len(path))
	for i := range path {
		node, ok := t.Resolve(path[:i+1])
		if !ok {
			labels = append(labels, path[i])
			continue
		}
		labels = append(labels, node.Label)
	}
	return strings.Join(labels, " → ")
}

// moderatorReportBody renders the escalated report for the moderator
// surface.
func moderatorReportBody(t models.Taxonomy, snap models.ReportSession) string {
	var b strings.Builder
	if snap.Origin == models.OriginAutomatic {
		fmt.Fprintf(&b, "Automatic Report %s\n", snap.ID)
	} else {
		fmt.Fprintf(&b, "Report %s\n", snap.ID)
	}
	fmt.Fprintf(&b, "Category: %s\n", categoryPathLabels(t, snap.CategoryPath))
	fmt.Fprintf(&b, "Reported user: %s in %s\n", snap.Target.AuthorID, snap.Target.ChannelID)
	if snap.Origin == models.OriginAutomatic {
		fmt.Fprintf(&b, "Classifier confidence: %.0f%%\n", snap.Confidence*100)
		if snap.SuggestedSeverity != "" {
			fmt.Fprintf(&b, "Suggested severity: %s\n", snap.SuggestedSeverity.Label())
		}
	}
	if snap.Note != "" {
		fmt.Fprintf(&b, "Additional information: %s\n", snap.Note)
	}
	b.WriteString(quoteMessage(snap.Target.Text))
	return b.String()
}

func moderatorActionPrompt(t models.Taxonomy, snap models.ReportSession) PromptSpec {
	return PromptSpec{
		Title: fmt.Sprintf("Report %s", snap.ID),
		Body:  moderatorReportBody(t, snap),
		Options: []PromptOption{
			{Key: "take_action", Label: "Take Action"},
			{Key: "dismiss", Label: "Dismiss"},
		},
	}
}

func severityPrompt() PromptSpec {
	return PromptSpec{
		Title: "Severity Level",
		Body:  "How severe is this violation?",
		Options: []PromptOption{
			{Key: string(models.SeverityLow), Label: models.SeverityLow.Label()},
			{Key: string(models.SeverityMedium), Label: models.SeverityMedium.Label()},
			{Key: string(models.SeverityHigh), Label: models.SeverityHigh.Label()},
			{Key: string(models.SeverityCritical), Label: models.SeverityCritical.Label()},
		},
	}
}

func messageActionPrompt() PromptSpec {
	return PromptSpec{
		Title: "Message Action",
		Body:  "What should be done with the reported message?",
		Options: []PromptOption{
			{Key: string(models.MessageActionRemove), Label: models.MessageActionRemove.Label()},
			{Key: string(models.MessageActionKeep), Label: models.MessageActionKeep.Label()},
		},
	}
}

func userActionPrompt() PromptSpec {
	return PromptSpec{
		Title: "User Action",
		Body:  "What action should be taken against the user?",
		Options: []PromptOption{
			{Key: string(models.UserActionWarn), Label: models.UserActionWarn.Label()},
			{Key: string(models.UserActionTimeout), Label: models.UserActionTimeout.Label()},
			{Key: string(models.UserActionKick), Label: models.UserActionKick.Label()},
			{Key: string(models.UserActionBan), Label: models.UserActionBan.Label()},
		},
	}
}

// moderationSummary renders the outcome of an actioned report.
func moderationSummary(snap models.ReportSession) string {
	return fmt.Sprintf(
		"Moderation Summary for Report %s\nSeverity: %s\nMessage action: %s\nUser action: %s\nHandled by: %s",
		snap.ID,
		snap.Decision.Severity.Label(),
		snap.Decision.MessageAction.Label(),
		snap.Decision.UserAction.Label(),
		snap.ModeratorID,
	)
}

func dismissalReporterMessage(reason string) string {
	return fmt.Sprintf(
		"Your report has been dismissed by our moderators.\nReason: %s\nIf you disagree with the dismissal, please submit another report and provide more information in the additional information field.",
		reason,
	)
}
