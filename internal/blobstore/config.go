package blobstore

// Config holds the settings needed to connect to an S3-compatible backend.
type Config struct {
	// Endpoint is the host:port of the storage server,
	// e.g. "s3.amazonaws.com" or "minio.internal:9000".
	Endpoint string

	// AccessKey is the access key ID. Empty together with SecretKey selects
	// anonymous (unauthenticated) access, as used for the public archive.
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware backends. Leave empty for MinIO.
	Region string
}

// Anonymous reports whether the config selects unauthenticated access.
func (c *Config) Anonymous() bool {
	return c.AccessKey == "" && c.SecretKey == ""
}
