package webhooks

// OverseerrPayload is the webhook body shape shared by Overseerr, Jellyseerr
// and their forks. Only the fields Framerr consumes are declared; the rest of
// the body is ignored.
type OverseerrPayload struct {
	Event                 string `json:"event"`
	NotificationTypeSnake string `json:"notification_type"`
	NotificationType      string `json:"notificationType"`
	Type                  string `json:"type"`
	Subject               string `json:"subject"`
	Message               string `json:"message"`

	Media *struct {
		MediaType string `json:"media_type"`
		Title     string `json:"title"`
	} `json:"media"`

	Request *struct {
		ID                  int64  `json:"id"`
		RequestedByUsername string `json:"requestedBy_username"`
	} `json:"request"`

	Issue *struct {
		ID                 int64  `json:"id"`
		ReportedByUsername string `json:"reportedBy_username"`
	} `json:"issue"`
}

// RawEvent returns the producer's event string. Overseerr variants have
// carried it under four different names over time; precedence matters
// because some releases send more than one.
func (p *OverseerrPayload) RawEvent() string {
	for _, s := range []string{p.Event, p.NotificationTypeSnake, p.NotificationType, p.Type} {
		if s != "" {
			return s
		}
	}
	return ""
}

// ArrPayload covers both Sonarr and Radarr webhook bodies, which share a
// common envelope.
type ArrPayload struct {
	EventType        string `json:"eventType"`
	InstanceName     string `json:"instanceName"`
	IsHealthRestored bool   `json:"isHealthRestored"`
	Message          string `json:"message"`

	Series *struct {
		Title string `json:"title"`
	} `json:"series"`

	Episodes []struct {
		SeasonNumber  int    `json:"seasonNumber"`
		EpisodeNumber int    `json:"episodeNumber"`
		Title         string `json:"title"`
	} `json:"episodes"`

	Movie *struct {
		Title string `json:"title"`
		Year  int    `json:"year"`
	} `json:"movie"`

	Release *struct {
		Quality      string `json:"quality"`
		ReleaseTitle string `json:"releaseTitle"`
	} `json:"release"`
}

// Fields carries the handful of values the content builder and routing
// policy need, normalized out of the per-service payload shapes.
type Fields struct {
	Subject   string
	Username  string
	RequestID int64
	Season    int
	Episode   int
	Year      int
	Quality   string
	Message   string
}

func (p *OverseerrPayload) Fields() Fields {
	f := Fields{
		Subject: p.Subject,
		Message: p.Message,
	}
	if f.Subject == "" && p.Media != nil {
		f.Subject = p.Media.Title
	}
	if p.Request != nil {
		f.Username = p.Request.RequestedByUsername
		f.RequestID = p.Request.ID
	}
	if f.Username == "" && p.Issue != nil {
		f.Username = p.Issue.ReportedByUsername
	}
	return f
}

func (p *ArrPayload) Fields() Fields {
	f := Fields{Message: p.Message}
	if p.Series != nil {
		f.Subject = p.Series.Title
	}
	if p.Movie != nil {
		f.Subject = p.Movie.Title
		f.Year = p.Movie.Year
	}
	if len(p.Episodes) > 0 {
		f.Season = p.Episodes[0].SeasonNumber
		f.Episode = p.Episodes[0].EpisodeNumber
	}
	if p.Release != nil {
		f.Quality = p.Release.Quality
	}
	return f
}
