package provider

import (
	"fmt"
	"os"
)

// Environment variables consulted by NewFromEnv
const (
	EnvEndpoint    = "SEMINDEX_ENDPOINT"
	EnvAPIKey      = "SEMINDEX_API_KEY"
	EnvAccessToken = "SEMINDEX_ACCESS_TOKEN"
	EnvChatModel   = "SEMINDEX_CHAT_MODEL"
	EnvEmbedModel  = "SEMINDEX_EMBED_MODEL"
	EnvOpenAIKey   = "OPENAI_API_KEY"
)

// NewFromEnv builds a SemanticProvider from environment variables.
// Credential resolution order:
//  1. SEMINDEX_API_KEY (api-key variant)
//  2. SEMINDEX_ACCESS_TOKEN (bearer-token variant)
//  3. OPENAI_API_KEY (api-key variant)
//
// A missing credential is a fatal precondition: indexing and search refuse to
// start without one.
func NewFromEnv() (SemanticProvider, error) {
	cred, err := credentialFromEnv()
	if err != nil {
		return nil, err
	}

	return NewOpenAIProvider(Config{
		Endpoint:   os.Getenv(EnvEndpoint),
		ChatModel:  os.Getenv(EnvChatModel),
		EmbedModel: os.Getenv(EnvEmbedModel),
		Credential: cred,
		CacheSize:  10000,
	})
}

// credentialFromEnv resolves the credential variant exactly once.
func credentialFromEnv() (Credential, error) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return APIKeyCredential(key), nil
	}
	if token := os.Getenv(EnvAccessToken); token != "" {
		return AccessTokenCredential(token), nil
	}
	if key := os.Getenv(EnvOpenAIKey); key != "" {
		return APIKeyCredential(key), nil
	}
	return Credential{}, fmt.Errorf("%w: set %s, %s, or %s",
		ErrNotConfigured, EnvAPIKey, EnvAccessToken, EnvOpenAIKey)
}
