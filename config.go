package messageml

import "github.com/goliatone/go-messageml/internal/runtimeconfig"

var (
	ErrFormatVersionRequired     = runtimeconfig.ErrFormatVersionRequired
	ErrTokenStrategyUnknown      = runtimeconfig.ErrTokenStrategyUnknown
	ErrTokenSeedRequired         = runtimeconfig.ErrTokenSeedRequired
	ErrEmojiTableUnknown         = runtimeconfig.ErrEmojiTableUnknown
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrPreviewExtensionsDisabled = runtimeconfig.ErrPreviewExtensionsDisabled
)

const (
	TokensRandom        = runtimeconfig.TokensRandom
	TokensDeterministic = runtimeconfig.TokensDeterministic
	EmojiGitHub         = runtimeconfig.EmojiGitHub
	EmojiNone           = runtimeconfig.EmojiNone
)

type (
	Config          = runtimeconfig.Config
	FormatConfig    = runtimeconfig.FormatConfig
	EntitiesConfig  = runtimeconfig.EntitiesConfig
	TemplatesConfig = runtimeconfig.TemplatesConfig
	TokensConfig    = runtimeconfig.TokensConfig
	EmojiConfig     = runtimeconfig.EmojiConfig
	PreviewConfig   = runtimeconfig.PreviewConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	Features        = runtimeconfig.Features
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
