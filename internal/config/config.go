package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ANIKETSHETTY47/carbon-aware-scheduler/internal/progress"
)

// Load reads an optional .env file, then registers defaults and binds the environment.
func Load(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	// Servers
	viper.SetDefault("API_ADDR", ":8080")
	viper.SetDefault("DASHBOARD_ADDR", ":3000")
	viper.SetDefault("API_URL", "http://localhost:8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// Progress animation
	viper.SetDefault("PROGRESS_STEPS", progress.DefaultSteps)
	viper.SetDefault("PROGRESS_STEP_DELAY", progress.DefaultDelay)

	// Tier catalog; empty keeps the built-in tiers
	viper.SetDefault("DB_DSN", "")

	// Event publishing
	viper.SetDefault("MQTT_BROKER", "")
	viper.SetDefault("MQTT_TOPIC", "carbon/analyses")
	viper.SetDefault("MQTT_CLIENT_ID", "carbon-task-analyzer")

	// AWS Configuration
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_SNS_TOPIC_ARN", "")
	viper.SetDefault("USE_CLOUD_SERVICES", "false")

	viper.AutomaticEnv()
	return nil
}

func APIAddr() string        { return viper.GetString("API_ADDR") }
func DashboardAddr() string  { return viper.GetString("DASHBOARD_ADDR") }
func APIURL() string         { return strings.TrimRight(viper.GetString("API_URL"), "/") }
func DatabaseDSN() string    { return viper.GetString("DB_DSN") }
func MQTTBroker() string     { return viper.GetString("MQTT_BROKER") }
func MQTTTopic() string      { return viper.GetString("MQTT_TOPIC") }
func MQTTClientID() string   { return viper.GetString("MQTT_CLIENT_ID") }
func AWSRegion() string      { return viper.GetString("AWS_REGION") }
func SNSTopicArn() string    { return viper.GetString("AWS_SNS_TOPIC_ARN") }
func UseCloudServices() bool { return viper.GetBool("USE_CLOUD_SERVICES") }

// Progress returns the ticker configured for the analysis animation.
func Progress() progress.Ticker {
	steps := viper.GetInt("PROGRESS_STEPS")
	if steps < 0 {
		steps = 0
	}
	delay := viper.GetDuration("PROGRESS_STEP_DELAY")
	if delay < 0 {
		delay = 0
	}
	return progress.Ticker{Steps: steps, Delay: delay}
}

// LogLevel parses LOG_LEVEL, falling back to info.
func LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("LOG_LEVEL")))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
