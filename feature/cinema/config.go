package cinema

// Config holds configuration for the cinema listings provider.
type Config struct {
	// BaseURL is the root of the listings API.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8090"`
	// Token is sent as a bearer token when set.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Images enables poster synchronization.
	Images bool `mapstructure:"images" default:"true"`
}
