package domain

// Upload is a file selected by the user for upload
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadOptions controls how an object is written to storage
type UploadOptions struct {
	CacheControl string
	Upsert       bool
}
