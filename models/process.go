package models

// ProcessRequest is the framed request accepted on POST /process.
// Audio is required; image and context are optional extra signal for the
// model.
type ProcessRequest struct {
	Image   string `json:"image,omitempty"` // base64-encoded screenshot
	Audio   string `json:"audio"`           // base64-encoded audio clip
	Context any    `json:"context,omitempty"`
}

// ProcessResponse flattens the extraction result plus the transcript into
// the response body.
type ProcessResponse struct {
	Success    bool     `json:"success"`
	Error      string   `json:"error,omitempty"`
	Raw        string   `json:"raw"`
	Transcript string   `json:"transcript"`
	Command    *Command `json:"command,omitempty"`
}
