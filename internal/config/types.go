package config

type Config struct {
	AnthropicKey       string
	OpenAIKey          string
	SupabaseConnString string
	JWTSecret          string
	RedisURL           string
	Environment        string
}
