package romaneio

import (
	"context"
	"fmt"
	"time"

	"github.com/gcamargo/almoxarifado-api/internal/application/estoque"
	"github.com/gcamargo/almoxarifado-api/internal/domain"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
)

// AprovarRomaneioUseCase executa a máquina de estados do romaneio: pendente ->
// aprovado/retirado, lançando os movimentos de estoque e a troca de posse dos
// materiais em uma única transação. Qualquer falha por linha aborta a aprovação
// inteira: nenhum lançamento daquela chamada persiste e o romaneio segue
// pendente.
type AprovarRomaneioUseCase struct {
	txRunner TxRunner
	agora    func() time.Time
}

// NewAprovarRomaneioUseCase constrói o processador de aprovação.
func NewAprovarRomaneioUseCase(txRunner TxRunner) *AprovarRomaneioUseCase {
	return &AprovarRomaneioUseCase{txRunner: txRunner, agora: time.Now}
}

// Aprovar valida e aplica a transição de aprovação. Duas aprovações
// concorrentes do mesmo romaneio serializam no lock do cabeçalho: a segunda
// encontra o status já mudado e falha com ErrStatusRomaneio.
func (uc *AprovarRomaneioUseCase) Aprovar(ctx context.Context, romaneioID, usuarioID string) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		rom, err := r.Romaneios.GetForUpdate(romaneioID)
		if err != nil {
			return err
		}
		if rom == nil {
			return domain.ErrNaoEncontrado
		}
		if !rom.Pendente() {
			return domain.ErrStatusRomaneio
		}

		itens, err := r.Itens.ListByRomaneio(rom.ID)
		if err != nil {
			return err
		}
		if len(itens) == 0 {
			return domain.ErrEntradaInvalida
		}

		agora := uc.agora()
		tipoMov := entity.MovimentoEntrada
		if rom.Saida() {
			tipoMov = entity.MovimentoSaida
		}

		for _, item := range itens {
			_, err := estoque.Registrar(r.Materiais, r.Movimentos, estoque.RegistroMovimento{
				MaterialID: item.MaterialID,
				Tipo:       tipoMov,
				Quantidade: item.Quantidade,
				Motivo:     fmt.Sprintf("aprovação do romaneio %s (%s)", rom.Numero, rom.Tipo),
				RomaneioID: &rom.ID,
				UsuarioID:  usuarioID,
				Em:         agora,
			})
			if err != nil {
				return fmt.Errorf("material %s: %w", item.MaterialID, err)
			}
			if rom.TransferePosse() {
				if err := r.Materiais.UpdateCentroCusto(item.MaterialID, rom.CentroCustoDestinoID, agora); err != nil {
					return err
				}
			}
		}

		if rom.Tipo == entity.TipoDevolucao {
			if err := marcarLinhasDevolvidas(r, rom, itens, agora); err != nil {
				return err
			}
		}

		return r.Romaneios.UpdateStatus(rom.ID, rom.StatusAposAprovacao(), agora)
	})
}

// marcarLinhasDevolvidas grava o carimbo de devolução nas linhas originais da
// retirada (idempotente: linha já devolvida é no-op) e atualiza o status da
// retirada quando ela fica totalmente reconciliada.
func marcarLinhasDevolvidas(r Repos, devolucao *entity.Romaneio, itens []*entity.RomaneioItem, agora time.Time) error {
	for _, item := range itens {
		if item.ItemOrigemID == nil {
			return domain.ErrEntradaInvalida
		}
		if _, err := r.Itens.MarcarDevolvido(*item.ItemOrigemID, agora); err != nil {
			return err
		}
	}

	if devolucao.RomaneioOrigemID == nil {
		return domain.ErrEntradaInvalida
	}
	originais, err := r.Itens.ListByRomaneio(*devolucao.RomaneioOrigemID)
	if err != nil {
		return err
	}
	for _, original := range originais {
		if original.Pendente() {
			return nil
		}
	}
	return r.Romaneios.UpdateStatus(*devolucao.RomaneioOrigemID, entity.StatusDevolvido, agora)
}

// Cancelar aplica a transição administrativa pendente -> cancelado, sem efeito
// de estoque. Romaneios já aprovados não podem ser cancelados por aqui: o
// caminho é o processador de estorno.
func (uc *AprovarRomaneioUseCase) Cancelar(ctx context.Context, romaneioID string) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		rom, err := r.Romaneios.GetForUpdate(romaneioID)
		if err != nil {
			return err
		}
		if rom == nil {
			return domain.ErrNaoEncontrado
		}
		if !rom.Pendente() {
			return domain.ErrStatusRomaneio
		}
		return r.Romaneios.UpdateStatus(rom.ID, entity.StatusCancelado, uc.agora())
	})
}
