package dto

// RemoteSettingsRequest configures the remote document coordinates by hand,
// e.g. to pull a backup pushed from another machine.
type RemoteSettingsRequest struct {
	GistID  string `json:"gistId" binding:"required"`
	GistURL string `json:"gistUrl"`
}

// RemoteSettingsResponse reports the current remote coordinates.
type RemoteSettingsResponse struct {
	GistFilename string `json:"gistFilename"`
	GistID       string `json:"gistId,omitempty"`
	GistURL      string `json:"gistUrl,omitempty"`
}

// SyncPushResponse reports where the backup went.
type SyncPushResponse struct {
	GistID  string `json:"gistId"`
	GistURL string `json:"gistUrl,omitempty"`
	Created bool   `json:"created"`
}

// SyncPullResponse reports what the pull brought in.
type SyncPullResponse struct {
	Products      int `json:"products"`
	InputInvoices int `json:"inputInvoices"`
	Sales151      int `json:"sales151"`
	Sales168      int `json:"sales168"`
}
