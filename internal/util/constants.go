package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	// Recordings use one fixed container/codec pairing.
	RecordingContentType = "video/webm"
	RecordingExtension   = ".webm"

	MimeVideo       = "video/"
	MimeOctetStream = "application/octet-stream"
)
