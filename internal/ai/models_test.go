package ai

import "testing"

func defaultConfig() ModelConfig {
	return ModelConfig{
		STTProvider: "deepgram",
		STTModel:    "nova-3",
		STTLanguage: "en",
		LLMProvider: "openai",
		LLMModel:    "gpt-4o-mini",
		TTSProvider: "cartesia",
		TTSModel:    "sonic-2",
		TTSVoice:    "sonic-english",
	}
}

func TestDescriptors(t *testing.T) {
	c := defaultConfig()
	if got := c.STTDescriptor(); got != "deepgram/nova-3:en" {
		t.Fatalf("unexpected STT descriptor %q", got)
	}
	if got := c.LLMDescriptor(); got != "openai/gpt-4o-mini" {
		t.Fatalf("unexpected LLM descriptor %q", got)
	}
	if got := c.TTSDescriptor(); got != "cartesia/sonic-2" {
		t.Fatalf("unexpected TTS descriptor %q", got)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("STT_PROVIDER", "assemblyai")
	t.Setenv("LLM_MODEL", "gpt-4o")

	c := FromEnv()
	if c.STTProvider != "assemblyai" {
		t.Fatalf("env override lost: %q", c.STTProvider)
	}
	if c.LLMModel != "gpt-4o" {
		t.Fatalf("env override lost: %q", c.LLMModel)
	}
	if c.TTSProvider != "cartesia" {
		t.Fatalf("default lost: %q", c.TTSProvider)
	}
}

func TestValidateUnknownProvider(t *testing.T) {
	c := defaultConfig()
	c.LLMProvider = "nonsense"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestValidateRequiredKeys(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CARTESIA_API_KEY", "")

	c := defaultConfig()
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error when API keys missing")
	}

	t.Setenv("DEEPGRAM_API_KEY", "k1")
	t.Setenv("OPENAI_API_KEY", "k2")
	t.Setenv("CARTESIA_API_KEY", "k3")

	if err := c.Validate(); err != nil {
		t.Fatalf("validate with keys present: %v", err)
	}
}
