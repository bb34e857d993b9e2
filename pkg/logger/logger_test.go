package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "warn")

	log.Info().Msg("ignorado")
	assert.Zero(t, buf.Len())

	log.Warn().Str("transaction_id", "OUT-260314-0001").Msg("rechazada")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "OUT-260314-0001", entry["transaction_id"])
}

func TestNop_NoPanica(t *testing.T) {
	log := logger.Nop()
	log.Info().Str("k", "v").Msg("nada")
	log.Error().Msg("nada")
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "debug").Component("ledger")

	log.Debug().Msg("detalle")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithWriter_NivelDesconocidoEsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "verbose")

	log.Debug().Msg("ignorado")
	assert.Zero(t, buf.Len())
	log.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}
