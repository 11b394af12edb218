package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Message(t *testing.T) {
	c, err := New(English)
	require.NoError(t, err)

	assert.Equal(t, "Request validation failed", c.Message(English, MsgValidationFailed))
	assert.Equal(t, "Falha na validação do pedido", c.Message(Portuguese, MsgValidationFailed))
	assert.Equal(t, "bio contém caracteres não permitidos", c.Message(Portuguese, "issue.invalid_characters", "bio"))
	assert.Equal(t, "Request validation failed", c.Message("fr", MsgValidationFailed), "unsupported languages use the default")
	assert.Equal(t, "issue.unknown", c.Message(English, "issue.unknown"))
}

func TestCatalog_EveryKeyInBothLanguages(t *testing.T) {
	for key := range messages[English] {
		_, ok := messages[Portuguese][key]
		assert.True(t, ok, "missing Portuguese message for %s", key)
	}
	for key := range messages[Portuguese] {
		_, ok := messages[English][key]
		assert.True(t, ok, "missing English message for %s", key)
	}
}

func TestCatalog_Language(t *testing.T) {
	c, err := New(English)
	require.NoError(t, err)

	tests := []struct {
		header   string
		expected string
	}{
		{"", English},
		{"pt-PT,pt;q=0.9,en;q=0.8", Portuguese},
		{"pt-BR", Portuguese},
		{"fr-FR, en-GB;q=0.7", English},
		{"de, fr", English},
		{"PT", Portuguese},
		{"pt;q=0.1, en;q=0.9", English},
		{"en;q=0.5, pt", Portuguese},
		{"pt;q=0, en;q=0.2", English},
		{"en;q=0.8, pt;q=0.8", English},
		{"pt;q=abc", English},
		{"*;q=0.5, pt;q=0.4", English},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Language(tt.header))
		})
	}
}

func TestCatalog_PortugueseDefault(t *testing.T) {
	c, err := New(Portuguese)
	require.NoError(t, err)

	assert.Equal(t, Portuguese, c.Default())
	assert.Equal(t, Portuguese, c.Language("de"))
	assert.Equal(t, "Erro interno do servidor", c.Message("", MsgInternalError))
}

func TestNew_UnknownDefault(t *testing.T) {
	c, err := New("es")
	require.NoError(t, err)
	assert.Equal(t, English, c.Default())
}
