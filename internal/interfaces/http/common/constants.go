package common

const (
	// MaxJSONRequestBody limits JSON request bodies for builder endpoints.
	MaxJSONRequestBody = 1 << 20
	// MaxFormRequestBody limits form-encoded survey submissions.
	MaxFormRequestBody = 4 << 20
)
