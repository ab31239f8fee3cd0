package config

type StorageConfig struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	CDNDomain string `yaml:"cdn_domain"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Region:    getEnv("AWS_REGION", "us-east-1"),
		Bucket:    getEnv("S3_BUCKET", "ggmarket-uploads"),
		CDNDomain: getEnv("CDN_DOMAIN", ""),
	}
}
