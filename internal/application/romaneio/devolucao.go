package romaneio

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gcamargo/almoxarifado-api/internal/application/estoque"
	"github.com/gcamargo/almoxarifado-api/internal/domain"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

// CandidatoDevolucao é uma linha de retirada ainda em aberto, com a quantidade
// pendente de devolução. Derivado sob demanda; nunca persistido. Uma linha é
// devolvida inteira ou não é devolvida: QuantidadePendente é sempre a
// quantidade original da linha.
type CandidatoDevolucao struct {
	Item               *entity.RomaneioItem
	QuantidadePendente decimal.Decimal
}

// DevolucaoService calcula o saldo em aberto de retiradas e intermedeia a
// criação de devoluções seletivas, garantindo no máximo uma devolução em
// aberto por retirada.
type DevolucaoService struct {
	txRunner            TxRunner
	romaneios           repository.RomaneioRepository
	itens               repository.RomaneioItemRepository
	criar               *CriarRomaneioUseCase
	centroCustoPadraoID string
	agora               func() time.Time
}

// NewDevolucaoService constrói o serviço. centroCustoPadraoID é o centro de
// custo "almoxarifado padrão" usado quando a retirada não tem origem definida.
func NewDevolucaoService(
	txRunner TxRunner,
	romaneios repository.RomaneioRepository,
	itens repository.RomaneioItemRepository,
	criar *CriarRomaneioUseCase,
	centroCustoPadraoID string,
) *DevolucaoService {
	return &DevolucaoService{
		txRunner:            txRunner,
		romaneios:           romaneios,
		itens:               itens,
		criar:               criar,
		centroCustoPadraoID: centroCustoPadraoID,
		agora:               time.Now,
	}
}

// carrega a retirada e valida o tipo.
func (s *DevolucaoService) retirada(id string) (*entity.Romaneio, error) {
	rom, err := s.romaneios.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rom == nil {
		return nil, domain.ErrNaoEncontrado
	}
	if rom.Tipo != entity.TipoRetirada {
		return nil, domain.ErrEntradaInvalida
	}
	return rom, nil
}

// ItensPendentes devolve as linhas da retirada ainda sem carimbo de devolução.
func (s *DevolucaoService) ItensPendentes(ctx context.Context, retiradaID string) ([]CandidatoDevolucao, error) {
	if _, err := s.retirada(retiradaID); err != nil {
		return nil, err
	}
	itens, err := s.itens.ListByRomaneio(retiradaID)
	if err != nil {
		return nil, err
	}
	var candidatos []CandidatoDevolucao
	for _, item := range itens {
		if item.Pendente() {
			candidatos = append(candidatos, CandidatoDevolucao{
				Item:               item,
				QuantidadePendente: item.Quantidade,
			})
		}
	}
	return candidatos, nil
}

// TemDevolucaoAberta responde se a retirada já tem devolução não finalizada
// (pendente ou aprovada) em andamento.
func (s *DevolucaoService) TemDevolucaoAberta(ctx context.Context, retiradaID string) (bool, error) {
	return s.romaneios.ExisteDevolucaoAberta(retiradaID)
}

// StatusReconciliacao classifica a retirada pela razão entre linhas devolvidas
// e o total de linhas: pendente, parcial ou totalmente_devolvido.
func (s *DevolucaoService) StatusReconciliacao(ctx context.Context, retiradaID string) (string, error) {
	if _, err := s.retirada(retiradaID); err != nil {
		return "", err
	}
	itens, err := s.itens.ListByRomaneio(retiradaID)
	if err != nil {
		return "", err
	}
	devolvidas := 0
	for _, item := range itens {
		if item.Devolvido() {
			devolvidas++
		}
	}
	switch {
	case devolvidas == 0:
		return entity.ReconciliacaoPendente, nil
	case devolvidas == len(itens):
		return entity.ReconciliacaoTotal, nil
	default:
		return entity.ReconciliacaoParcial, nil
	}
}

// CriarDevolucaoSeletiva cria um romaneio de devolução cobrindo o subconjunto
// escolhido das linhas em aberto da retirada. Os materiais voltam para o centro
// de custo de onde saíram (origem da retirada, ou o almoxarifado padrão quando
// a origem não foi informada). A devolução nasce pendente e só produz efeito de
// estoque quando aprovada.
func (s *DevolucaoService) CriarDevolucaoSeletiva(ctx context.Context, retiradaID string, itemIDs []string, usuarioID string) (*CriarRomaneioOutput, error) {
	rom, err := s.retirada(retiradaID)
	if err != nil {
		return nil, err
	}
	if !rom.Aprovado() {
		return nil, domain.ErrStatusRomaneio
	}

	aberta, err := s.romaneios.ExisteDevolucaoAberta(retiradaID)
	if err != nil {
		return nil, err
	}
	if aberta {
		return nil, domain.ErrDevolucaoEmAberto
	}

	if len(itemIDs) == 0 {
		return nil, domain.ErrEntradaInvalida
	}
	candidatos, err := s.ItensPendentes(ctx, retiradaID)
	if err != nil {
		return nil, err
	}
	pendentes := make(map[string]*entity.RomaneioItem, len(candidatos))
	for _, c := range candidatos {
		pendentes[c.Item.ID] = c.Item
	}

	linhas := make([]LinhaInput, 0, len(itemIDs))
	vistos := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		original, ok := pendentes[id]
		if !ok || vistos[id] {
			return nil, domain.ErrEntradaInvalida
		}
		vistos[id] = true
		origemID := original.ID
		linhas = append(linhas, LinhaInput{
			MaterialID:    original.MaterialID,
			Quantidade:    original.Quantidade,
			ValorUnitario: original.ValorUnitario,
			Patrimonio:    original.Patrimonio,
			ItemOrigemID:  &origemID,
		})
	}

	destino := rom.CentroCustoOrigemID
	if destino == "" {
		destino = s.centroCustoPadraoID
	}

	return s.criar.Criar(ctx, CriarRomaneioInput{
		Tipo:                 entity.TipoDevolucao,
		CentroCustoOrigemID:  rom.CentroCustoDestinoID,
		CentroCustoDestinoID: destino,
		FuncionarioID:        rom.FuncionarioID,
		RomaneioOrigemID:     &rom.ID,
		Observacoes:          fmt.Sprintf("devolução referente ao romaneio %s", rom.Numero),
		UsuarioID:            usuarioID,
		Linhas:               linhas,
	})
}

// DesfazerDevolucao limpa o carimbo de devolução de uma linha de retirada e
// lança o movimento de compensação que tira a quantidade de volta do destino da
// devolução. Correção administrativa: só é permitida enquanto o material ainda
// está no centro de custo que o recebeu de volta e com saldo suficiente; se um
// romaneio posterior já consumiu ou moveu o item, a operação falha com
// ErrConflito.
func (s *DevolucaoService) DesfazerDevolucao(ctx context.Context, itemID, usuarioID string) error {
	return s.txRunner.Run(ctx, func(r Repos) error {
		item, err := r.Itens.GetByID(itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNaoEncontrado
		}
		if !item.Devolvido() {
			return domain.ErrConflito
		}

		retirada, err := r.Romaneios.GetByID(item.RomaneioID)
		if err != nil {
			return err
		}
		if retirada == nil || retirada.Tipo != entity.TipoRetirada {
			return domain.ErrConflito
		}

		destinoDevolucao := retirada.CentroCustoOrigemID
		if destinoDevolucao == "" {
			destinoDevolucao = s.centroCustoPadraoID
		}

		mat, err := r.Materiais.GetForUpdate(item.MaterialID)
		if err != nil {
			return err
		}
		if mat == nil {
			return domain.ErrNaoEncontrado
		}
		if mat.CentroCustoID != destinoDevolucao {
			return domain.ErrConflito
		}

		agora := s.agora()
		_, err = estoque.Registrar(r.Materiais, r.Movimentos, estoque.RegistroMovimento{
			MaterialID: item.MaterialID,
			Tipo:       entity.MovimentoSaida,
			Quantidade: item.Quantidade,
			Motivo:     fmt.Sprintf("desfazer devolução da linha %s do romaneio %s", item.ID, retirada.Numero),
			UsuarioID:  usuarioID,
			Em:         agora,
		})
		if err != nil {
			return err
		}

		if err := r.Itens.LimparDevolucao(item.ID); err != nil {
			return err
		}
		if err := r.Materiais.UpdateCentroCusto(item.MaterialID, retirada.CentroCustoDestinoID, agora); err != nil {
			return err
		}
		// Retirada que estava totalmente devolvida volta a ser retirada ativa.
		if retirada.Status == entity.StatusDevolvido {
			return r.Romaneios.UpdateStatus(retirada.ID, entity.StatusRetirado, agora)
		}
		return nil
	})
}
