package models

// StationSource describes one configured origin of station records.
//
// Type selects the loader:
//   - "json": a JSON object mapping station ID to StationRecord, read from Path or URL.
//   - "gtfs": a GTFS static bundle (zip), read from Path or URL.
//   - "oba": the stops listed in StopIDs, resolved through a OneBusAway API server.
//
// Country is applied to every station of a source that carries no country of its own.
type StationSource struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Path       string   `json:"path,omitempty"`
	URL        string   `json:"url,omitempty"`
	Country    string   `json:"country,omitempty"`
	ObaBaseURL string   `json:"oba_base_url,omitempty"`
	ObaApiKey  string   `json:"oba_api_key,omitempty"`
	StopIDs    []string `json:"stop_ids,omitempty"`
}

const (
	SourceTypeJSON = "json"
	SourceTypeGTFS = "gtfs"
	SourceTypeOBA  = "oba"
)

// NewStationSource creates a new StationSource instance.
func NewStationSource(name, sourceType, path, url, country string) *StationSource {
	return &StationSource{
		Name:    name,
		Type:    sourceType,
		Path:    path,
		URL:     url,
		Country: country,
	}
}
