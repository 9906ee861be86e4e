package webhooks

// EventKey is Framerr's own stable vocabulary for an inbound event,
// decoupled from any one producer's naming. The empty string means
// "unknown event" and is never an error: unmodeled producer events are
// acknowledged and dropped so producers do not disable the webhook.
type EventKey string

const (
	EventRequestPending      EventKey = "requestPending"
	EventRequestApproved     EventKey = "requestApproved"
	EventRequestAutoApproved EventKey = "requestAutoApproved"
	EventRequestAvailable    EventKey = "requestAvailable"
	EventRequestDeclined     EventKey = "requestDeclined"
	EventRequestFailed       EventKey = "requestFailed"
	EventIssueReported       EventKey = "issueReported"
	EventIssueComment        EventKey = "issueComment"
	EventIssueResolved       EventKey = "issueResolved"
	EventIssueReopened       EventKey = "issueReopened"
	EventTest                EventKey = "test"

	EventGrab              EventKey = "grab"
	EventDownload          EventKey = "download"
	EventUpgrade           EventKey = "upgrade"
	EventImportComplete    EventKey = "importComplete"
	EventRename            EventKey = "rename"
	EventSeriesAdd         EventKey = "seriesAdd"
	EventSeriesDelete      EventKey = "seriesDelete"
	EventEpisodeFileDelete EventKey = "episodeFileDelete"
	EventMovieAdd          EventKey = "movieAdd"
	EventMovieDelete       EventKey = "movieDelete"
	EventMovieFileDelete   EventKey = "movieFileDelete"
	EventHealthIssue       EventKey = "healthIssue"
	EventHealthRestored    EventKey = "healthRestored"
	EventApplicationUpdate EventKey = "applicationUpdate"
	EventManualInteraction EventKey = "manualInteractionRequired"
)

// Known service identifiers. These double as icon references on created
// notifications.
const (
	ServiceOverseerr = "overseerr"
	ServiceSonarr    = "sonarr"
	ServiceRadarr    = "radarr"
)

var serviceDisplayNames = map[string]string{
	ServiceOverseerr: "Overseerr",
	ServiceSonarr:    "Sonarr",
	ServiceRadarr:    "Radarr",
}

func ServiceDisplayName(service string) string {
	if name, ok := serviceDisplayNames[service]; ok {
		return name
	}
	return service
}

// Recipient classification sets. Admin events concern moderation and go to
// administrators; user events concern a specific requester; both events
// matter to everyone involved.
var (
	adminEvents = map[EventKey]bool{
		EventRequestPending: true,
		EventIssueReported:  true,
		EventIssueReopened:  true,
	}

	userEvents = map[EventKey]bool{
		EventRequestApproved:     true,
		EventRequestAutoApproved: true,
		EventRequestAvailable:    true,
		EventRequestDeclined:     true,
		EventIssueResolved:       true,
		EventIssueComment:        true,
	}

	bothEvents = map[EventKey]bool{
		EventRequestFailed: true,
	}
)

// eventSeverity maps an event onto the notification type shown in the UI.
// Anything unlisted is plain info.
var eventSeverity = map[EventKey]string{
	EventRequestApproved:     "success",
	EventRequestAutoApproved: "success",
	EventRequestAvailable:    "success",
	EventIssueResolved:       "success",
	EventHealthRestored:      "success",
	EventRequestDeclined:     "warning",
	EventIssueReported:       "warning",
	EventIssueReopened:       "warning",
	EventManualInteraction:   "warning",
	EventRequestFailed:       "error",
	EventHealthIssue:         "error",
}

func Severity(key EventKey) string {
	if s, ok := eventSeverity[key]; ok {
		return s
	}
	return "info"
}
