package models

// BackupRequest is the JSON body of POST /backup.
type BackupRequest struct {
	Domain       string           `json:"domain"`
	Cookies      []map[string]any `json:"cookies"`
	LocalStorage map[string]any   `json:"local_storage"`
}

// BackupStatusResponse is the JSON body of GET /status/{domain}.
type BackupStatusResponse struct {
	Domain    string  `json:"domain"`
	Exists    bool    `json:"exists"`
	UpdatedAt *string `json:"updated_at"`
}

// RestoreResponse is the JSON body of GET /restore/{domain}.
type RestoreResponse struct {
	Domain       string           `json:"domain"`
	Cookies      []map[string]any `json:"cookies"`
	LocalStorage map[string]any   `json:"local_storage"`
	UpdatedAt    string           `json:"updated_at"`
}

// DeleteResponse is the JSON body of DELETE /backup/{domain}.
type DeleteResponse struct {
	Status  string `json:"status"`
	Deleted bool   `json:"deleted"`
}

// StatusResponse is the generic `{"status":"ok"}` body used by the health
// check, /init and /backup endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON error body returned for all failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
