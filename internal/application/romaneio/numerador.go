package romaneio

import (
	"fmt"
	"time"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
	"github.com/gcamargo/almoxarifado-api/pkg/logger"
)

// Prefixos humanos por tipo de romaneio.
var prefixoPorTipo = map[string]string{
	entity.TipoEntrada:       "ENT",
	entity.TipoRetirada:      "RET",
	entity.TipoTransferencia: "TRF",
	entity.TipoDevolucao:     "DEV",
}

// Numerador gera números sequenciais legíveis de romaneio, únicos sob
// concorrência via contador atômico no banco, escopado por tipo, centros de
// custo e competência (AAAAMM).
type Numerador struct {
	sequencias repository.SequenciaRepository
	log        *logger.Logger
	agora      func() time.Time
}

// NewNumerador constrói o numerador.
func NewNumerador(sequencias repository.SequenciaRepository, log *logger.Logger) *Numerador {
	return &Numerador{sequencias: sequencias, log: log, agora: time.Now}
}

// Proximo devolve o próximo número no formato PREFIXO-AAAAMM-NNNNNN. Se o
// contador falhar, não propaga o erro ao chamador: cai para um número derivado
// do relógio (resolução de segundo), priorizando disponibilidade da emissão.
func (n *Numerador) Proximo(tipo, origemID, destinoID string) string {
	prefixo, ok := prefixoPorTipo[tipo]
	if !ok {
		prefixo = "ROM"
	}
	agora := n.agora()
	competencia := agora.Format("200601")

	chave := fmt.Sprintf("%s|%s|%s|%s", tipo, origemID, destinoID, competencia)
	seq, err := n.sequencias.Proximo(chave)
	if err != nil {
		n.log.Warn().Err(err).Str("chave", chave).
			Msg("contador de sequência indisponível; usando número derivado do relógio")
		return fmt.Sprintf("%s-%s", prefixo, agora.Format("20060102150405"))
	}
	return fmt.Sprintf("%s-%s-%06d", prefixo, competencia, seq)
}
