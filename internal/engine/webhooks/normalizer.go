package webhooks

// overseerrEvents maps every known Overseerr-family event string onto one
// EventKey. The table carries three historical vocabularies for the same
// logical events: the terse dotted form (media.pending), the upper-snake
// form (MEDIA_PENDING) and the verbose prose form used by Jellyseerr-era
// webhooks ("New Movie Request"). Unknown strings map to the zero value.
var overseerrEvents = map[string]EventKey{
	"media.pending":      EventRequestPending,
	"media.approved":     EventRequestApproved,
	"media.autoapproved": EventRequestAutoApproved,
	"media.available":    EventRequestAvailable,
	"media.declined":     EventRequestDeclined,
	"media.failed":       EventRequestFailed,
	"issue.created":      EventIssueReported,
	"issue.comment":      EventIssueComment,
	"issue.resolved":     EventIssueResolved,
	"issue.reopened":     EventIssueReopened,
	"test":               EventTest,

	"MEDIA_PENDING":       EventRequestPending,
	"MEDIA_APPROVED":      EventRequestApproved,
	"MEDIA_AUTO_APPROVED": EventRequestAutoApproved,
	"MEDIA_AVAILABLE":     EventRequestAvailable,
	"MEDIA_DECLINED":      EventRequestDeclined,
	"MEDIA_FAILED":        EventRequestFailed,
	"ISSUE_CREATED":       EventIssueReported,
	"ISSUE_COMMENT":       EventIssueComment,
	"ISSUE_RESOLVED":      EventIssueResolved,
	"ISSUE_REOPENED":      EventIssueReopened,
	"TEST_NOTIFICATION":   EventTest,

	"New Movie Request":                        EventRequestPending,
	"New Series Request":                       EventRequestPending,
	"New Request":                              EventRequestPending,
	"Movie Request Approved":                   EventRequestApproved,
	"Series Request Approved":                  EventRequestApproved,
	"Request Approved":                         EventRequestApproved,
	"Movie Request Automatically Approved":     EventRequestAutoApproved,
	"Series Request Automatically Approved":    EventRequestAutoApproved,
	"Request Automatically Approved":           EventRequestAutoApproved,
	"Movie Now Available":                      EventRequestAvailable,
	"Series Now Available":                     EventRequestAvailable,
	"Request Available":                        EventRequestAvailable,
	"Movie Request Declined":                   EventRequestDeclined,
	"Series Request Declined":                  EventRequestDeclined,
	"Request Declined":                         EventRequestDeclined,
	"Movie Request Failed":                     EventRequestFailed,
	"Series Request Failed":                    EventRequestFailed,
	"Request Processing Failed":                EventRequestFailed,
	"New Issue Reported":                       EventIssueReported,
	"Issue Reported":                           EventIssueReported,
	"New Comment on Issue":                     EventIssueComment,
	"Issue Comment":                            EventIssueComment,
	"Issue Resolved":                           EventIssueResolved,
	"Issue Reopened":                           EventIssueReopened,
	"Test Notification":                        EventTest,
}

// arrEvents is the Sonarr/Radarr eventType table. The producers share one
// vocabulary except for the series/movie specific entries; keeping them in
// one table is harmless because a producer never emits the other's strings.
var arrEvents = map[string]EventKey{
	"Grab":                      EventGrab,
	"Download":                  EventDownload,
	"Upgrade":                   EventUpgrade,
	"ImportComplete":            EventImportComplete,
	"Rename":                    EventRename,
	"SeriesAdd":                 EventSeriesAdd,
	"SeriesDelete":              EventSeriesDelete,
	"EpisodeFileDelete":         EventEpisodeFileDelete,
	"MovieAdded":                EventMovieAdd,
	"MovieDelete":               EventMovieDelete,
	"MovieFileDelete":           EventMovieFileDelete,
	"Health":                    EventHealthIssue,
	"HealthRestored":            EventHealthRestored,
	"ApplicationUpdate":         EventApplicationUpdate,
	"ManualInteractionRequired": EventManualInteraction,
	"Test":                      EventTest,
}

// NormalizeOverseerr resolves an Overseerr-family payload to an EventKey,
// or "" when the event string is not in the table.
func NormalizeOverseerr(p *OverseerrPayload) EventKey {
	return overseerrEvents[p.RawEvent()]
}

// NormalizeArr resolves a Sonarr/Radarr payload to an EventKey. Health
// events carry an isHealthRestored flag instead of a distinct event type in
// some producer versions; when set, the key is overridden to healthRestored.
func NormalizeArr(p *ArrPayload) EventKey {
	key := arrEvents[p.EventType]
	if key == EventHealthIssue && p.IsHealthRestored {
		return EventHealthRestored
	}
	return key
}
