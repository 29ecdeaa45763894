package config

import (
	"github.com/spf13/viper"
)

type HTTPConfiguration struct {
	Host string `json:"host" mapstructure:"host" default:"0.0.0.0"`
	Port string `json:"port" mapstructure:"port" default:"8080"`
}

type StorageConfiguration struct {
	Root string `json:"root" mapstructure:"root" default:"storage"`
}

type S3Configuration struct {
	URL    string `json:"url" mapstructure:"url" default:""`
	Bucket string `json:"bucket" mapstructure:"bucket" default:""`
	Key    string `json:"key" mapstructure:"key" default:""`
	Secret string `json:"secret" mapstructure:"secret" default:""`
	Region string `json:"region" mapstructure:"region" default:""`
	Secure bool   `json:"secure" mapstructure:"secure" default:"false"`
}

type AIConfiguration struct {
	APIKey string `json:"api_key" mapstructure:"api_key" default:""`
	Model  string `json:"model" mapstructure:"model" default:"gemini-2.0-flash"`
}

type Configuration struct {
	HTTP    HTTPConfiguration    `json:"http" mapstructure:"http"`
	Storage StorageConfiguration `json:"storage" mapstructure:"storage"`
	S3      S3Configuration      `json:"s3" mapstructure:"s3"`
	AI      AIConfiguration      `json:"ai" mapstructure:"ai"`
	DBPath  string               `json:"db_path" mapstructure:"db_path" default:"data/meta.db"`
}

var Config *Configuration

func InitConfig(file string) {
	viper.SetDefault("http.host", "0.0.0.0")
	viper.SetDefault("http.port", "8080")
	viper.SetDefault("storage.root", "storage")
	viper.SetDefault("ai.model", "gemini-2.0-flash")
	viper.SetDefault("db_path", "data/meta.db")
	_ = viper.BindEnv("ai.api_key", "GEMINI_API_KEY")
	_ = viper.BindEnv("s3.key", "S3_ACCESS_KEY")
	_ = viper.BindEnv("s3.secret", "S3_SECRET_KEY")
	viper.AutomaticEnv()
	if file != "" {
		viper.SetConfigFile(file)
		err := viper.ReadInConfig()
		if err != nil {
			panic(err)
		}
	}
	Config = &Configuration{}
	err := viper.Unmarshal(Config)
	if err != nil {
		panic(err)
	}
}
