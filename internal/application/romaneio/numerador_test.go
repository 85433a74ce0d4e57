package romaneio_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gcamargo/almoxarifado-api/internal/application/romaneio"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/pkg/logger"
)

func novoNumerador(s *memStore) *romaneio.Numerador {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return romaneio.NewNumerador(&sequenciaRepoFake{s: s}, log)
}

func TestNumerador_FormatoEIncremento(t *testing.T) {
	s := newMemStore()
	n := novoNumerador(s)

	competencia := time.Now().Format("200601")

	assert.Equal(t, fmt.Sprintf("ENT-%s-000001", competencia), n.Proximo(entity.TipoEntrada, "", "cc-a"))
	assert.Equal(t, fmt.Sprintf("ENT-%s-000002", competencia), n.Proximo(entity.TipoEntrada, "", "cc-a"))

	// Escopos diferentes têm contadores independentes.
	assert.Equal(t, fmt.Sprintf("ENT-%s-000001", competencia), n.Proximo(entity.TipoEntrada, "", "cc-b"))
	assert.Equal(t, fmt.Sprintf("RET-%s-000001", competencia), n.Proximo(entity.TipoRetirada, "cc-a", "cc-b"))
	assert.Equal(t, fmt.Sprintf("TRF-%s-000001", competencia), n.Proximo(entity.TipoTransferencia, "cc-a", "cc-b"))
	assert.Equal(t, fmt.Sprintf("DEV-%s-000001", competencia), n.Proximo(entity.TipoDevolucao, "cc-b", "cc-a"))
}

func TestNumerador_TipoDesconhecidoUsaPrefixoGenerico(t *testing.T) {
	s := newMemStore()
	n := novoNumerador(s)
	assert.Regexp(t, `^ROM-\d{6}-000001$`, n.Proximo("outro", "", "cc-a"))
}

func TestNumerador_FallbackQuandoContadorFalha(t *testing.T) {
	s := newMemStore()
	s.seqErr = errors.New("banco indisponível")
	n := novoNumerador(s)

	numero := n.Proximo(entity.TipoRetirada, "cc-a", "cc-b")
	// Número derivado do relógio, sem sequência: emissão não pode parar.
	assert.Regexp(t, `^RET-\d{14}$`, numero)
}
