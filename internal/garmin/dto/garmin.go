package dto

type ConnectRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ConnectionStatus struct {
	Connected bool    `json:"connected"`
	Email     string  `json:"email,omitempty"`
	LastSync  *string `json:"lastSync"`
}

type SyncResult struct {
	Status          string `json:"status"` // "success" or "partial"
	ItemsSynced     int    `json:"itemsSynced"`
	ActivitiesFound int    `json:"activitiesFound"`
	SummariesFound  int    `json:"summariesFound"`
	Errors          int    `json:"errors"`
	DurationSeconds int    `json:"durationSeconds"`
}

type SyncStatus struct {
	LastSyncDate       *string `json:"lastSyncDate"`
	LastSyncTime       *string `json:"lastSyncTime"`
	MostRecentDataDate *string `json:"mostRecentDataDate"`
	NeedsSync          bool    `json:"needsSync"`
}
