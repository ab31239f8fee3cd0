package config

type NotifyConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Region   string `yaml:"region"`
	TopicARN string `yaml:"topic_arn"`
}

func loadNotifyConfig() *NotifyConfig {
	return &NotifyConfig{
		Enabled:  getEnvAsBool("SNS_ENABLED", false),
		Region:   getEnv("AWS_REGION", "us-east-1"),
		TopicARN: getEnv("SNS_TOPIC_ARN", ""),
	}
}
