package models

// CredentialsRequest is the body of /register and /login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ExecRequest is the body of /admin/exec.
type ExecRequest struct {
	Cmd string `json:"cmd"`
}

// StatusResponse reports the outcome of an action.
type StatusResponse struct {
	Status string `json:"status"`
}

// TokenResponse carries an issued token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UploadResponse is returned after a file has been stored.
type UploadResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

// ExecResponse carries the combined output of a command.
type ExecResponse struct {
	Output string `json:"output"`
}

// DeserializeResponse describes a decoded object graph.
type DeserializeResponse struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status  string       `json:"status"`
	Uptime  string       `json:"uptime"`
	Uploads *UploadsDisk `json:"uploads,omitempty"`
}

// UploadsDisk describes the filesystem holding the upload directory.
type UploadsDisk struct {
	Path        string  `json:"path"`
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
}
