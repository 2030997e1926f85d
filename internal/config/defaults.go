package config

const (
	defaultOutputDir = "~/.local/share/viralengine/output"
	defaultTempDir   = "~/.local/share/viralengine/temp"
	defaultLogDir    = "~/.local/share/viralengine/logs"

	defaultOpenRouterBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel          = "anthropic/claude-3.5-sonnet"
	defaultOpenRouterReferer        = "https://github.com/viralengine/viralengine"
	defaultOpenRouterTitle          = "Viral Engine"
	defaultOpenRouterTimeoutSeconds = 60

	defaultElevenLabsBaseURL        = "https://api.elevenlabs.io/v1"
	defaultElevenLabsModel          = "eleven_multilingual_v2"
	defaultElevenLabsTimeoutSeconds = 120

	defaultRunwayBaseURL             = "https://api.runwayml.com/v1"
	defaultRunwayModel               = "gen3a_turbo"
	defaultRunwayPollIntervalSeconds = 5
	defaultRunwayTimeoutSeconds      = 600

	defaultMaxScenes = 20

	defaultLogFormat = "auto"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			TempDir:   defaultTempDir,
			LogDir:    defaultLogDir,
		},
		OpenRouter: OpenRouter{
			BaseURL:        defaultOpenRouterBaseURL,
			Model:          defaultOpenRouterModel,
			Referer:        defaultOpenRouterReferer,
			Title:          defaultOpenRouterTitle,
			TimeoutSeconds: defaultOpenRouterTimeoutSeconds,
		},
		ElevenLabs: ElevenLabs{
			BaseURL:        defaultElevenLabsBaseURL,
			Model:          defaultElevenLabsModel,
			TimeoutSeconds: defaultElevenLabsTimeoutSeconds,
		},
		Runway: Runway{
			BaseURL:             defaultRunwayBaseURL,
			Model:               defaultRunwayModel,
			PollIntervalSeconds: defaultRunwayPollIntervalSeconds,
			TimeoutSeconds:      defaultRunwayTimeoutSeconds,
		},
		Pipeline: Pipeline{
			MaxScenes: defaultMaxScenes,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
