package types

// SinkConfig selects and configures one event sink. Only the fields for
// the chosen type are consulted.
type SinkConfig struct {
	Type SinkType `yaml:"type"`

	// file
	Path string `yaml:"path,omitempty"`

	// webhook
	URL string `yaml:"url,omitempty"`

	// sns
	TopicARN string `yaml:"topicArn,omitempty"`

	// sqs
	QueueURL string `yaml:"queueUrl,omitempty"`

	// s3
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`

	// cloudwatch-logs
	LogGroup  string `yaml:"logGroup,omitempty"`
	LogStream string `yaml:"logStream,omitempty"`

	// eventbridge
	EventBus string `yaml:"eventBus,omitempty"`
}
