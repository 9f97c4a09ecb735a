// Package ai holds the model-selection tables for the voice pipeline:
// which STT/LLM/TTS providers exist, what models they serve, and which API
// key each one needs. The service never calls these providers itself; it
// only validates and formats the descriptors the orchestration layer uses.
package ai

import (
	"fmt"
	"os"
)

type ModelConfig struct {
	STTProvider string
	STTModel    string
	STTLanguage string

	LLMProvider string
	LLMModel    string

	TTSProvider string
	TTSModel    string
	TTSVoice    string
}

// FromEnv builds a ModelConfig from environment variables with the stack's
// defaults.
func FromEnv() ModelConfig {
	return ModelConfig{
		STTProvider: envOr("STT_PROVIDER", "deepgram"),
		STTModel:    envOr("STT_MODEL", "nova-3"),
		STTLanguage: envOr("STT_LANGUAGE", "en"),
		LLMProvider: envOr("LLM_PROVIDER", "openai"),
		LLMModel:    envOr("LLM_MODEL", "gpt-4o-mini"),
		TTSProvider: envOr("TTS_PROVIDER", "cartesia"),
		TTSModel:    envOr("TTS_MODEL", "sonic-2"),
		TTSVoice:    envOr("TTS_VOICE", "sonic-english"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// STTDescriptor formats the speech-to-text model descriptor,
// "provider/model:language".
func (c ModelConfig) STTDescriptor() string {
	return fmt.Sprintf("%s/%s:%s", c.STTProvider, c.STTModel, c.STTLanguage)
}

// LLMDescriptor formats the language-model descriptor, "provider/model".
func (c ModelConfig) LLMDescriptor() string {
	return fmt.Sprintf("%s/%s", c.LLMProvider, c.LLMModel)
}

// TTSDescriptor formats the text-to-speech model descriptor, "provider/model".
func (c ModelConfig) TTSDescriptor() string {
	return fmt.Sprintf("%s/%s", c.TTSProvider, c.TTSModel)
}

type ProviderInfo struct {
	Models      []string
	Languages   []string
	Voices      []string
	RequiresKey string
}

var STTProviders = map[string]ProviderInfo{
	"deepgram": {
		Models:      []string{"nova-3", "nova-2", "base"},
		Languages:   []string{"en", "multi", "es", "fr", "de", "pt", "it"},
		RequiresKey: "DEEPGRAM_API_KEY",
	},
	"assemblyai": {
		Models:      []string{"universal-streaming", "nano", "best"},
		Languages:   []string{"en", "multi"},
		RequiresKey: "ASSEMBLYAI_API_KEY",
	},
	"groq": {
		Models:      []string{"whisper-large-v3", "distil-whisper-large-v3-en"},
		Languages:   []string{"en", "multi"},
		RequiresKey: "GROQ_API_KEY",
	},
	"azure": {
		Models:      []string{"default"},
		Languages:   []string{"en", "es", "fr", "de", "pt", "it"},
		RequiresKey: "AZURE_SPEECH_KEY",
	},
	"google": {
		Models:      []string{"chirp-2"},
		Languages:   []string{"en", "multi"},
		RequiresKey: "GOOGLE_API_KEY",
	},
}

var LLMProviders = map[string]ProviderInfo{
	"openai": {
		Models:      []string{"gpt-4o", "gpt-4o-mini", "gpt-4-turbo", "gpt-3.5-turbo"},
		RequiresKey: "OPENAI_API_KEY",
	},
	"anthropic": {
		Models:      []string{"claude-3-5-sonnet-20241022", "claude-3-opus-20240229", "claude-3-sonnet-20240229"},
		RequiresKey: "ANTHROPIC_API_KEY",
	},
	"groq": {
		Models:      []string{"llama-3.3-70b-versatile", "mixtral-8x7b-32768"},
		RequiresKey: "GROQ_API_KEY",
	},
	"google": {
		Models:      []string{"gemini-2.0-flash-exp", "gemini-1.5-pro"},
		RequiresKey: "GOOGLE_API_KEY",
	},
	"cerebras": {
		Models:      []string{"llama-3.3-70b", "llama-3.1-8b"},
		RequiresKey: "CEREBRAS_API_KEY",
	},
}

var TTSProviders = map[string]ProviderInfo{
	"cartesia": {
		Models:      []string{"sonic-2", "sonic-english"},
		Voices:      []string{"sonic-english", "british-lady", "helpful-woman"},
		RequiresKey: "CARTESIA_API_KEY",
	},
	"elevenlabs": {
		Models:      []string{"turbo-v2.5", "multilingual-v2"},
		Voices:      []string{"rachel", "clyde", "domi"},
		RequiresKey: "ELEVENLABS_API_KEY",
	},
	"openai": {
		Models:      []string{"tts-1", "tts-1-hd"},
		Voices:      []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"},
		RequiresKey: "OPENAI_API_KEY",
	},
	"azure": {
		Models:      []string{"neural"},
		Voices:      []string{"en-US-JennyNeural", "en-US-GuyNeural"},
		RequiresKey: "AZURE_SPEECH_KEY",
	},
	"google": {
		Models:      []string{"journey"},
		Voices:      []string{"Journey", "Puck", "Charon", "Kore"},
		RequiresKey: "GOOGLE_API_KEY",
	},
}

// Validate checks that each configured provider exists and that its required
// API key is present in the environment.
func (c ModelConfig) Validate() error {
	stt, ok := STTProviders[c.STTProvider]
	if !ok {
		return fmt.Errorf("invalid STT provider: %s", c.STTProvider)
	}
	llm, ok := LLMProviders[c.LLMProvider]
	if !ok {
		return fmt.Errorf("invalid LLM provider: %s", c.LLMProvider)
	}
	tts, ok := TTSProviders[c.TTSProvider]
	if !ok {
		return fmt.Errorf("invalid TTS provider: %s", c.TTSProvider)
	}

	for _, key := range []string{stt.RequiresKey, llm.RequiresKey, tts.RequiresKey} {
		if os.Getenv(key) == "" {
			return fmt.Errorf("missing required API key: %s", key)
		}
	}
	return nil
}
