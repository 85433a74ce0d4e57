package romaneio

import (
	"context"
	"fmt"
	"time"

	"github.com/gcamargo/almoxarifado-api/internal/domain"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
	"github.com/gcamargo/almoxarifado-api/pkg/logger"
)

// ExclusaoResultado resultado da exclusão de um romaneio. Avisos carrega as
// falhas parciais de estorno: a exclusão em si prossegue mesmo assim.
type ExclusaoResultado struct {
	Avisos []string
}

// ExcluirRomaneioUseCase remove um romaneio desfazendo antes seus efeitos de
// estoque e posse, quando houve aprovação. O estorno é best-effort por item:
// uma falha em um material vira aviso e o processo segue com os demais; cada
// falha fica logada para correção manual.
type ExcluirRomaneioUseCase struct {
	txRunner            TxRunner
	romaneios           repository.RomaneioRepository
	movimentos          repository.MovimentoEstoqueRepository
	centroCustoPadraoID string
	log                 *logger.Logger
	agora               func() time.Time
}

// NewExcluirRomaneioUseCase constrói o processador de exclusão/estorno.
func NewExcluirRomaneioUseCase(
	txRunner TxRunner,
	romaneios repository.RomaneioRepository,
	movimentos repository.MovimentoEstoqueRepository,
	centroCustoPadraoID string,
	log *logger.Logger,
) *ExcluirRomaneioUseCase {
	return &ExcluirRomaneioUseCase{
		txRunner:            txRunner,
		romaneios:           romaneios,
		movimentos:          movimentos,
		centroCustoPadraoID: centroCustoPadraoID,
		log:                 log,
		agora:               time.Now,
	}
}

// Excluir remove o romaneio. Nunca aprovado (nenhum lançamento o referencia):
// apaga linhas e cabeçalho direto. Aprovado: para cada lançamento do livro,
// restaura o saldo do material ao valor anterior ao lançamento, reverte a posse
// ao centro de custo de origem (ou ao almoxarifado padrão quando a origem não
// foi informada) e remove o lançamento; em devoluções, limpa também os carimbos
// das linhas da retirada que este romaneio havia marcado.
func (uc *ExcluirRomaneioUseCase) Excluir(ctx context.Context, romaneioID string) (*ExclusaoResultado, error) {
	rom, err := uc.romaneios.GetByID(romaneioID)
	if err != nil {
		return nil, err
	}
	if rom == nil {
		return nil, domain.ErrNaoEncontrado
	}

	movs, err := uc.movimentos.ListByRomaneio(rom.ID)
	if err != nil {
		return nil, err
	}

	resultado := &ExclusaoResultado{}
	agora := uc.agora()

	// Cada estorno roda em transação curta própria: o saldo volta ao valor
	// quantidade-anterior do lançamento e o lançamento é removido juntos, mas
	// uma falha em um material não impede o estorno dos demais. A ordem é a
	// inversa da de aplicação (sequência decrescente): com mais de um lançamento
	// do mesmo material, o quantidade-anterior restaurado por último é o do
	// primeiro lançamento, o saldo de antes do romaneio.
	posse := rom.CentroCustoOrigemID
	if posse == "" {
		posse = uc.centroCustoPadraoID
	}
	for i := len(movs) - 1; i >= 0; i-- {
		mov := movs[i]
		err := uc.txRunner.Run(ctx, func(r Repos) error {
			mat, err := r.Materiais.GetForUpdate(mov.MaterialID)
			if err != nil {
				return err
			}
			if mat == nil {
				return domain.ErrNaoEncontrado
			}
			if err := r.Materiais.UpdateSaldo(mov.MaterialID, mov.QuantidadeAnterior, agora); err != nil {
				return err
			}
			if rom.TransferePosse() {
				if err := r.Materiais.UpdateCentroCusto(mov.MaterialID, posse, agora); err != nil {
					return err
				}
			}
			return r.Movimentos.Delete(mov.ID)
		})
		if err != nil {
			uc.log.Warn().Err(err).
				Str("romaneio", rom.Numero).
				Str("material", mov.MaterialID).
				Msg("estorno de movimento falhou; exclusão prossegue")
			resultado.Avisos = append(resultado.Avisos,
				fmt.Sprintf("estorno do material %s falhou: %v", mov.MaterialID, err))
		}
	}

	if rom.Tipo == entity.TipoDevolucao && rom.Aprovado() {
		if err := uc.desmarcarLinhasOriginais(ctx, rom, agora); err != nil {
			uc.log.Warn().Err(err).Str("romaneio", rom.Numero).
				Msg("reversão dos carimbos de devolução falhou; exclusão prossegue")
			resultado.Avisos = append(resultado.Avisos,
				fmt.Sprintf("reversão dos carimbos de devolução falhou: %v", err))
		}
	}

	err = uc.txRunner.Run(ctx, func(r Repos) error {
		if err := r.Itens.DeleteByRomaneio(rom.ID); err != nil {
			return err
		}
		return r.Romaneios.Delete(rom.ID)
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// desmarcarLinhasOriginais limpa o carimbo de devolução das linhas da retirada
// cobertas por esta devolução e devolve a retirada de "devolvido" para
// "retirado" quando aplicável.
func (uc *ExcluirRomaneioUseCase) desmarcarLinhasOriginais(ctx context.Context, devolucao *entity.Romaneio, agora time.Time) error {
	if devolucao.RomaneioOrigemID == nil {
		return nil
	}
	return uc.txRunner.Run(ctx, func(r Repos) error {
		itens, err := r.Itens.ListByRomaneio(devolucao.ID)
		if err != nil {
			return err
		}
		for _, item := range itens {
			if item.ItemOrigemID == nil {
				continue
			}
			if err := r.Itens.LimparDevolucao(*item.ItemOrigemID); err != nil {
				return err
			}
		}
		retirada, err := r.Romaneios.GetForUpdate(*devolucao.RomaneioOrigemID)
		if err != nil {
			return err
		}
		if retirada != nil && retirada.Status == entity.StatusDevolvido {
			return r.Romaneios.UpdateStatus(retirada.ID, entity.StatusRetirado, agora)
		}
		return nil
	})
}
