package storage

// Config holds the object-storage settings used by the "s3" remote backend.
type Config struct {
	// Endpoint is the host[:port] of the S3-compatible service.
	Endpoint  string `mapstructure:"endpoint" default:"localhost:9000"`
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	UseSSL    bool   `mapstructure:"use_ssl" default:"false"`
	// Bucket holds the mirrored resources.
	Bucket string `mapstructure:"bucket" default:"agents"`
	Region string `mapstructure:"region" default:""`
	// Prefix is prepended to every object key ("<prefix>/<env>/<kind>s/<id>.json").
	Prefix string `mapstructure:"prefix" default:"resources"`
	// TimeoutSeconds bounds connection setup and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
