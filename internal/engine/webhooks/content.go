package webhooks

import "fmt"

var eventLabels = map[EventKey]string{
	EventRequestPending:      "Request Pending",
	EventRequestApproved:     "Request Approved",
	EventRequestAutoApproved: "Request Auto-Approved",
	EventRequestAvailable:    "Request Available",
	EventRequestDeclined:     "Request Declined",
	EventRequestFailed:       "Request Failed",
	EventIssueReported:       "Issue Reported",
	EventIssueComment:        "Issue Comment",
	EventIssueResolved:       "Issue Resolved",
	EventIssueReopened:       "Issue Reopened",
	EventTest:                "Test",
	EventGrab:                "Release Grabbed",
	EventDownload:            "Download Complete",
	EventUpgrade:             "Quality Upgraded",
	EventImportComplete:      "Import Complete",
	EventRename:              "Files Renamed",
	EventSeriesAdd:           "Series Added",
	EventSeriesDelete:        "Series Deleted",
	EventEpisodeFileDelete:   "Episode File Deleted",
	EventMovieAdd:            "Movie Added",
	EventMovieDelete:         "Movie Deleted",
	EventMovieFileDelete:     "Movie File Deleted",
	EventHealthIssue:         "Health Issue",
	EventHealthRestored:      "Health Restored",
	EventApplicationUpdate:   "Application Update",
	EventManualInteraction:   "Manual Interaction Required",
}

// BuildContent renders the human-readable title and message for one event.
// Pure function: no lookups, no side effects.
func BuildContent(service string, key EventKey, f Fields) (title, message string) {
	label, ok := eventLabels[key]
	if !ok {
		// Unmapped keys should not reach here given the normalizer contract.
		label = "Notification"
	}
	title = fmt.Sprintf("%s: %s", ServiceDisplayName(service), label)
	return title, buildMessage(key, f)
}

// subjectLine decorates the media title with episode or year details when
// the payload carried them.
func (f Fields) subjectLine() string {
	s := f.Subject
	if s == "" {
		return s
	}
	if f.Season > 0 || f.Episode > 0 {
		s = fmt.Sprintf("%s S%02dE%02d", s, f.Season, f.Episode)
	}
	if f.Year > 0 {
		s = fmt.Sprintf("%s (%d)", s, f.Year)
	}
	return s
}

func buildMessage(key EventKey, f Fields) string {
	subject := f.subjectLine()

	switch key {
	case EventRequestPending:
		if f.Username != "" {
			return fmt.Sprintf("%q requested by %s is awaiting approval", f.Subject, f.Username)
		}
		return fmt.Sprintf("%q is awaiting approval", f.Subject)
	case EventRequestApproved:
		return fmt.Sprintf("%q has been approved", f.Subject)
	case EventRequestAutoApproved:
		return fmt.Sprintf("%q was automatically approved", f.Subject)
	case EventRequestAvailable:
		return fmt.Sprintf("%q is now available", f.Subject)
	case EventRequestDeclined:
		return fmt.Sprintf("%q has been declined", f.Subject)
	case EventRequestFailed:
		return fmt.Sprintf("%q failed to process", f.Subject)
	case EventIssueReported:
		if f.Username != "" {
			return fmt.Sprintf("%s reported an issue with %q", f.Username, f.Subject)
		}
		return fmt.Sprintf("An issue was reported with %q", f.Subject)
	case EventIssueComment:
		return fmt.Sprintf("New comment on the issue for %q", f.Subject)
	case EventIssueResolved:
		return fmt.Sprintf("The issue with %q was resolved", f.Subject)
	case EventIssueReopened:
		return fmt.Sprintf("The issue with %q was reopened", f.Subject)
	case EventTest:
		if f.Message != "" {
			return f.Message
		}
		return "Test notification received, the webhook is configured correctly"
	case EventGrab:
		if f.Quality != "" {
			return fmt.Sprintf("Grabbed %s [%s]", subject, f.Quality)
		}
		return fmt.Sprintf("Grabbed %s", subject)
	case EventDownload:
		if f.Quality != "" {
			return fmt.Sprintf("Downloaded %s [%s]", subject, f.Quality)
		}
		return fmt.Sprintf("Downloaded %s", subject)
	case EventUpgrade:
		if f.Quality != "" {
			return fmt.Sprintf("Upgraded %s to %s", subject, f.Quality)
		}
		return fmt.Sprintf("Upgraded %s", subject)
	case EventImportComplete:
		return fmt.Sprintf("Import complete for %s", subject)
	case EventRename:
		return fmt.Sprintf("Files renamed for %s", subject)
	case EventSeriesAdd, EventMovieAdd:
		return fmt.Sprintf("%s was added to the library", subject)
	case EventSeriesDelete, EventMovieDelete:
		return fmt.Sprintf("%s was removed from the library", subject)
	case EventEpisodeFileDelete:
		return fmt.Sprintf("An episode file for %s was deleted", subject)
	case EventMovieFileDelete:
		return fmt.Sprintf("A movie file for %s was deleted", subject)
	case EventHealthIssue:
		if f.Message != "" {
			return f.Message
		}
		return "A health issue was detected"
	case EventHealthRestored:
		if f.Message != "" {
			return f.Message
		}
		return "A previous health issue has been resolved"
	case EventApplicationUpdate:
		if f.Message != "" {
			return f.Message
		}
		return "An application update is available"
	case EventManualInteraction:
		if f.Message != "" {
			return f.Message
		}
		return "Manual interaction is required"
	}

	// Generic fallback for keys without a template.
	if subject != "" {
		return fmt.Sprintf("Event received for %s", subject)
	}
	if f.Message != "" {
		return f.Message
	}
	return "Event received"
}
