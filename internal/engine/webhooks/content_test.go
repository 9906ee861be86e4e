package webhooks

import "testing"

func TestBuildContent(t *testing.T) {
	tests := []struct {
		name        string
		service     string
		key         EventKey
		fields      Fields
		wantTitle   string
		wantMessage string
	}{
		{
			name:        "Request Pending With Username",
			service:     ServiceOverseerr,
			key:         EventRequestPending,
			fields:      Fields{Subject: "Dune Part Two", Username: "alice"},
			wantTitle:   "Overseerr: Request Pending",
			wantMessage: `"Dune Part Two" requested by alice is awaiting approval`,
		},
		{
			name:        "Request Pending Without Username",
			service:     ServiceOverseerr,
			key:         EventRequestPending,
			fields:      Fields{Subject: "Dune Part Two"},
			wantTitle:   "Overseerr: Request Pending",
			wantMessage: `"Dune Part Two" is awaiting approval`,
		},
		{
			name:        "Request Available",
			service:     ServiceOverseerr,
			key:         EventRequestAvailable,
			fields:      Fields{Subject: "Severance"},
			wantTitle:   "Overseerr: Request Available",
			wantMessage: `"Severance" is now available`,
		},
		{
			name:        "Issue Reported With Reporter",
			service:     ServiceOverseerr,
			key:         EventIssueReported,
			fields:      Fields{Subject: "The Batman", Username: "bob"},
			wantTitle:   "Overseerr: Issue Reported",
			wantMessage: `bob reported an issue with "The Batman"`,
		},
		{
			name:        "Sonarr Download With Episode And Quality",
			service:     ServiceSonarr,
			key:         EventDownload,
			fields:      Fields{Subject: "Severance", Season: 2, Episode: 3, Quality: "WEBDL-1080p"},
			wantTitle:   "Sonarr: Download Complete",
			wantMessage: "Downloaded Severance S02E03 [WEBDL-1080p]",
		},
		{
			name:        "Radarr Grab With Year",
			service:     ServiceRadarr,
			key:         EventGrab,
			fields:      Fields{Subject: "Dune Part Two", Year: 2024, Quality: "Bluray-1080p"},
			wantTitle:   "Radarr: Release Grabbed",
			wantMessage: "Grabbed Dune Part Two (2024) [Bluray-1080p]",
		},
		{
			name:        "Health Issue With Producer Message",
			service:     ServiceSonarr,
			key:         EventHealthIssue,
			fields:      Fields{Message: "Indexer unavailable due to failures"},
			wantTitle:   "Sonarr: Health Issue",
			wantMessage: "Indexer unavailable due to failures",
		},
		{
			name:        "Health Issue Without Message",
			service:     ServiceRadarr,
			key:         EventHealthIssue,
			fields:      Fields{},
			wantTitle:   "Radarr: Health Issue",
			wantMessage: "A health issue was detected",
		},
		{
			name:        "Test With Default Message",
			service:     ServiceOverseerr,
			key:         EventTest,
			fields:      Fields{},
			wantTitle:   "Overseerr: Test",
			wantMessage: "Test notification received, the webhook is configured correctly",
		},
		{
			name:        "Unmapped Key Falls Back",
			service:     ServiceSonarr,
			key:         EventKey("mystery"),
			fields:      Fields{Subject: "Severance"},
			wantTitle:   "Sonarr: Notification",
			wantMessage: "Event received for Severance",
		},
		{
			name:        "Unmapped Key Without Subject",
			service:     ServiceSonarr,
			key:         EventKey("mystery"),
			fields:      Fields{},
			wantTitle:   "Sonarr: Notification",
			wantMessage: "Event received",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, message := BuildContent(tt.service, tt.key, tt.fields)
			if title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", title, tt.wantTitle)
			}
			if message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", message, tt.wantMessage)
			}
		})
	}
}

func TestSeverity(t *testing.T) {
	if got := Severity(EventRequestFailed); got != "error" {
		t.Errorf("Expected error severity, got %s", got)
	}
	if got := Severity(EventHealthIssue); got != "error" {
		t.Errorf("Expected error severity, got %s", got)
	}
	if got := Severity(EventIssueReported); got != "warning" {
		t.Errorf("Expected warning severity, got %s", got)
	}
	if got := Severity(EventRequestAvailable); got != "success" {
		t.Errorf("Expected success severity, got %s", got)
	}
	if got := Severity(EventGrab); got != "info" {
		t.Errorf("Expected info severity, got %s", got)
	}
}
