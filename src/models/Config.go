package models

// The Configuration struct holds the effective configuration (Config),
// and, for factory deployments, the documents it was merged from.
type Configuration struct {
	Name         string
	Port         string
	Config       Config
	CustomConfig Config
	GlobalConfig Config
}

// Config is the highlevel struct which contains all the configuration of
// the media service.
type Config struct {
	Type      string     `json:"type" bson:"type"`
	Key       string     `json:"key" bson:"key"`
	Name      string     `json:"name" bson:"name"`
	Timezone  string     `json:"timezone,omitempty" bson:"timezone,omitempty"`
	LogLevel  string     `json:"log_level,omitempty" bson:"log_level,omitempty"`
	LogOutput string     `json:"log_output,omitempty" bson:"log_output,omitempty"`
	BaseURL   string     `json:"base_url,omitempty" bson:"base_url,omitempty"`
	Tokens    *Tokens    `json:"tokens,omitempty" bson:"tokens,omitempty"`
	Limits    *Limits    `json:"limits,omitempty" bson:"limits,omitempty"`
	Storage   *Storage   `json:"storage,omitempty" bson:"storage,omitempty"`
	S3        *S3        `json:"s3,omitempty" bson:"s3,omitempty"`
	Catalog   *Catalog   `json:"catalog,omitempty" bson:"catalog,omitempty"`
	Registry  *Registry  `json:"registry,omitempty" bson:"registry,omitempty"`
	Outputs   *Outputs   `json:"outputs,omitempty" bson:"outputs,omitempty"`
	Buildings []Building `json:"buildings,omitempty" bson:"buildings,omitempty"`
}

// Tokens holds the two signing secrets. Client tokens authorize reads,
// gateway tokens authorize uploads.
type Tokens struct {
	ClientSecret  string `json:"client_secret,omitempty" bson:"client_secret,omitempty"`
	GatewaySecret string `json:"gateway_secret,omitempty" bson:"gateway_secret,omitempty"`
}

// Limits are the upload ceilings in bytes, zero means unbounded.
type Limits struct {
	MaxSnapshotSize  int64 `json:"max_snapshot_size,omitempty" bson:"max_snapshot_size,omitempty"`
	MaxRecordingSize int64 `json:"max_recording_size,omitempty" bson:"max_recording_size,omitempty"`
}

// Storage selects where the binary artifacts are written:
// "filesystem", "minio" or "s3".
type Storage struct {
	Provider  string `json:"provider,omitempty" bson:"provider,omitempty"`
	Directory string `json:"directory,omitempty" bson:"directory,omitempty"`
	SpoolDir  string `json:"spool_directory,omitempty" bson:"spool_directory,omitempty"`
}

// S3 contains the credentials of an S3 compatible bucket, used by
// both the "minio" and the "s3" storage providers.
type S3 struct {
	Endpoint     string `json:"endpoint,omitempty" bson:"endpoint,omitempty"`
	Region       string `json:"region,omitempty" bson:"region,omitempty"`
	Bucket       string `json:"bucket,omitempty" bson:"bucket,omitempty"`
	AccessKey    string `json:"access_key,omitempty" bson:"access_key,omitempty"`
	SecretKey    string `json:"secret_key,omitempty" bson:"secret_key,omitempty"`
	Secure       string `json:"secure,omitempty" bson:"secure,omitempty"`
	PathStyle    string `json:"path_style,omitempty" bson:"path_style,omitempty"`
	ProxyURI     string `json:"proxy_uri,omitempty" bson:"proxy_uri,omitempty"`
	PresignedTTL int64  `json:"presigned_ttl,omitempty" bson:"presigned_ttl,omitempty"`
}

// Catalog selects the timestamp index: "badger" (local) or "redis" (shared).
type Catalog struct {
	Provider  string `json:"provider,omitempty" bson:"provider,omitempty"`
	Directory string `json:"directory,omitempty" bson:"directory,omitempty"`
	RedisURL  string `json:"redis_url,omitempty" bson:"redis_url,omitempty"`
}

// Registry selects where buildings and cameras are looked up:
// "static" (the buildings list of this config) or "mongodb".
type Registry struct {
	Provider   string `json:"provider,omitempty" bson:"provider,omitempty"`
	Collection string `json:"collection,omitempty" bson:"collection,omitempty"`
}

// Building is an entry of the static registry.
type Building struct {
	Id      string   `json:"id" bson:"id"`
	Cameras []string `json:"cameras" bson:"cameras"`
}

// Outputs are notified after an artifact was stored.
type Outputs struct {
	MQTTURI      string `json:"mqtturi,omitempty" bson:"mqtturi,omitempty"`
	MQTTUsername string `json:"mqtt_username,omitempty" bson:"mqtt_username,omitempty"`
	MQTTPassword string `json:"mqtt_password,omitempty" bson:"mqtt_password,omitempty"`
	NATSURI      string `json:"nats_uri,omitempty" bson:"nats_uri,omitempty"`
	WebhookURI   string `json:"webhook_uri,omitempty" bson:"webhook_uri,omitempty"`
}
