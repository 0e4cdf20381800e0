package agentapi

// QueryRequest is the body of POST {prefix}/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the backend's answer to a query.
type QueryResponse struct {
	Response string `json:"response"`
	Agent    string `json:"agent"`
	Status   string `json:"status,omitempty"`
}

// queryPayload accepts both the documented "response" field and the
// "answer" field emitted by the individual agents.
type queryPayload struct {
	Response *string `json:"response"`
	Answer   *string `json:"answer"`
	Agent    string  `json:"agent"`
	Status   string  `json:"status"`
}

// Index states reported by the backend after ingesting an upload.
const (
	IndexStatusIndexed       = "ingested_and_indexed"
	IndexStatusQuotaExceeded = "ingested_only_quota_exceeded"
	IndexStatusFailed        = "ingested_only_indexing_failed"
)

// UploadResult describes a document accepted by POST {prefix}/upload.
type UploadResult struct {
	Filename   string  `json:"filename"`
	TextLength int     `json:"text_length"`
	FilePath   string  `json:"file_path,omitempty"`
	Preview    string  `json:"preview,omitempty"`
	Status     string  `json:"status,omitempty"`
	Warning    *string `json:"warning,omitempty"`
}

// Indexed reports whether the backend could index the document for search.
// Older backends omit the status and always index.
func (r UploadResult) Indexed() bool {
	return r.Status == "" || r.Status == IndexStatusIndexed
}

// WarningText returns the backend warning or an empty string.
func (r UploadResult) WarningText() string {
	if r.Warning == nil {
		return ""
	}
	return *r.Warning
}

type uploadPayload struct {
	Filename   *string `json:"filename"`
	TextLength *int    `json:"text_length"`
	FilePath   string  `json:"file_path"`
	Preview    string  `json:"preview"`
	Status     string  `json:"status"`
	Warning    *string `json:"warning"`
}

// PingResponse is returned by the backend root endpoint.
type PingResponse struct {
	Message string `json:"message"`
}

// errorPayload matches FastAPI error bodies; detail is a string for
// HTTPException and a list of objects for validation errors.
type errorPayload struct {
	Detail any `json:"detail"`
}
