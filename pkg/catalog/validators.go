package catalog

// ImportPayload is the request body for a manifest import. Path is optional;
// when omitted the configured manifest path is used.
type ImportPayload struct {
	Path string `json:"path" validate:"omitempty,max=4096"`
}
