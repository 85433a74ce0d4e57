package romaneio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gcamargo/almoxarifado-api/internal/domain"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
	"github.com/gcamargo/almoxarifado-api/pkg/logger"
)

// LinhaInput é uma linha na criação de romaneio. Em devoluções ItemOrigemID é
// obrigatório e aponta para a linha em aberto da retirada devolvida; nos demais
// tipos a presença do campo é rejeitada.
type LinhaInput struct {
	MaterialID    string
	Quantidade    decimal.Decimal
	ValorUnitario decimal.Decimal
	Patrimonio    string
	Observacoes   string
	ItemOrigemID  *string
}

// CriarRomaneioInput entrada para criação de romaneio.
type CriarRomaneioInput struct {
	Tipo                   string
	CentroCustoOrigemID    string
	CentroCustoDestinoID   string
	FuncionarioID          string
	RomaneioOrigemID       *string
	DataEmissao            time.Time
	Observacoes            string
	UsuarioID              string
	AprovarAutomaticamente bool
	Linhas                 []LinhaInput
}

// CriarRomaneioOutput resultado da criação. Avisos carrega falhas não fatais
// (ex.: aprovação automática que não se concretizou).
type CriarRomaneioOutput struct {
	Romaneio *entity.Romaneio
	Avisos   []string
}

// CriarRomaneioUseCase cria romaneios sempre em status pendente. A aprovação
// automática, quando pedida, é uma segunda chamada explícita ao processador de
// aprovação depois do commit da criação: uma falha de estoque nunca deixa um
// romaneio "aprovado mas não lançado"; ele permanece pendente e a falha vira
// aviso para o chamador.
type CriarRomaneioUseCase struct {
	txRunner     TxRunner
	romaneios    repository.RomaneioRepository
	itens        repository.RomaneioItemRepository
	materiais    repository.MaterialRepository
	centros      repository.CentroCustoRepository
	funcionarios repository.FuncionarioRepository
	numerador    *Numerador
	aprovador    *AprovarRomaneioUseCase
	log          *logger.Logger
	agora        func() time.Time
}

// NewCriarRomaneioUseCase constrói o caso de uso.
func NewCriarRomaneioUseCase(
	txRunner TxRunner,
	romaneios repository.RomaneioRepository,
	itens repository.RomaneioItemRepository,
	materiais repository.MaterialRepository,
	centros repository.CentroCustoRepository,
	funcionarios repository.FuncionarioRepository,
	numerador *Numerador,
	aprovador *AprovarRomaneioUseCase,
	log *logger.Logger,
) *CriarRomaneioUseCase {
	return &CriarRomaneioUseCase{
		txRunner:     txRunner,
		romaneios:    romaneios,
		itens:        itens,
		materiais:    materiais,
		centros:      centros,
		funcionarios: funcionarios,
		numerador:    numerador,
		aprovador:    aprovador,
		log:          log,
		agora:        time.Now,
	}
}

// Criar valida, numera e persiste o romaneio com suas linhas em uma transação.
func (uc *CriarRomaneioUseCase) Criar(ctx context.Context, in CriarRomaneioInput) (*CriarRomaneioOutput, error) {
	if err := uc.validar(in); err != nil {
		return nil, err
	}

	agora := uc.agora()
	emissao := in.DataEmissao
	if emissao.IsZero() {
		emissao = agora
	}

	rom := &entity.Romaneio{
		ID:                   uuid.New().String(),
		Numero:               uc.numerador.Proximo(in.Tipo, in.CentroCustoOrigemID, in.CentroCustoDestinoID),
		Tipo:                 in.Tipo,
		Status:               entity.StatusPendente,
		CentroCustoOrigemID:  in.CentroCustoOrigemID,
		CentroCustoDestinoID: in.CentroCustoDestinoID,
		FuncionarioID:        in.FuncionarioID,
		RomaneioOrigemID:     in.RomaneioOrigemID,
		DataEmissao:          emissao,
		Observacoes:          in.Observacoes,
		CriadoEm:             agora,
		AtualizadoEm:         agora,
	}

	err := uc.txRunner.Run(ctx, func(r Repos) error {
		if err := r.Romaneios.Create(rom); err != nil {
			return err
		}
		for _, linha := range in.Linhas {
			item := &entity.RomaneioItem{
				ID:            uuid.New().String(),
				RomaneioID:    rom.ID,
				MaterialID:    linha.MaterialID,
				Quantidade:    linha.Quantidade,
				ValorUnitario: linha.ValorUnitario,
				ValorTotal:    linha.Quantidade.Mul(linha.ValorUnitario),
				Patrimonio:    linha.Patrimonio,
				Observacoes:   linha.Observacoes,
				ItemOrigemID:  linha.ItemOrigemID,
				CriadoEm:      agora,
			}
			if err := r.Itens.Create(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &CriarRomaneioOutput{Romaneio: rom}
	if in.AprovarAutomaticamente {
		if err := uc.aprovador.Aprovar(ctx, rom.ID, in.UsuarioID); err != nil {
			uc.log.Warn().Err(err).Str("romaneio", rom.Numero).
				Msg("aprovação automática falhou; romaneio permanece pendente")
			out.Avisos = append(out.Avisos, fmt.Sprintf("aprovação automática falhou: %v", err))
		} else {
			atualizado, err := uc.romaneios.GetByID(rom.ID)
			if err == nil && atualizado != nil {
				out.Romaneio = atualizado
			}
		}
	}
	return out, nil
}

func (uc *CriarRomaneioUseCase) validar(in CriarRomaneioInput) error {
	if !entity.TipoValido(in.Tipo) || len(in.Linhas) == 0 {
		return domain.ErrEntradaInvalida
	}
	if in.CentroCustoDestinoID == "" {
		return domain.ErrEntradaInvalida
	}
	if in.Tipo != entity.TipoDevolucao && in.RomaneioOrigemID != nil {
		return domain.ErrEntradaInvalida
	}
	if in.Tipo == entity.TipoDevolucao {
		if err := uc.validarDevolucao(in); err != nil {
			return err
		}
	}

	destino, err := uc.centros.GetByID(in.CentroCustoDestinoID)
	if err != nil {
		return err
	}
	if destino == nil {
		return domain.ErrNaoEncontrado
	}
	if in.CentroCustoOrigemID != "" {
		origem, err := uc.centros.GetByID(in.CentroCustoOrigemID)
		if err != nil {
			return err
		}
		if origem == nil {
			return domain.ErrNaoEncontrado
		}
	}
	if in.FuncionarioID != "" {
		f, err := uc.funcionarios.GetByID(in.FuncionarioID)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrNaoEncontrado
		}
	}

	for _, linha := range in.Linhas {
		if linha.MaterialID == "" || !linha.Quantidade.GreaterThan(decimal.Zero) {
			return domain.ErrEntradaInvalida
		}
		if linha.ValorUnitario.IsNegative() {
			return domain.ErrEntradaInvalida
		}
		if linha.ItemOrigemID != nil && in.Tipo != entity.TipoDevolucao {
			return domain.ErrEntradaInvalida
		}
		mat, err := uc.materiais.GetByID(linha.MaterialID)
		if err != nil {
			return err
		}
		if mat == nil {
			return domain.ErrNaoEncontrado
		}
	}
	return nil
}

// validarDevolucao amarra cada linha da devolução a uma linha em aberto da
// retirada de origem. Sem isso uma devolução inválida nasceria pendente,
// inaprovável, e ainda ocuparia a vaga de devolução em aberto da retirada.
func (uc *CriarRomaneioUseCase) validarDevolucao(in CriarRomaneioInput) error {
	if in.RomaneioOrigemID == nil {
		return domain.ErrEntradaInvalida
	}
	origem, err := uc.romaneios.GetByID(*in.RomaneioOrigemID)
	if err != nil {
		return err
	}
	if origem == nil {
		return domain.ErrNaoEncontrado
	}
	if origem.Tipo != entity.TipoRetirada {
		return domain.ErrEntradaInvalida
	}
	if !origem.Aprovado() {
		return domain.ErrStatusRomaneio
	}

	originais, err := uc.itens.ListByRomaneio(origem.ID)
	if err != nil {
		return err
	}
	porID := make(map[string]*entity.RomaneioItem, len(originais))
	for _, item := range originais {
		porID[item.ID] = item
	}

	vistos := make(map[string]bool, len(in.Linhas))
	for _, linha := range in.Linhas {
		if linha.ItemOrigemID == nil {
			return domain.ErrEntradaInvalida
		}
		original, ok := porID[*linha.ItemOrigemID]
		if !ok || vistos[*linha.ItemOrigemID] {
			return domain.ErrEntradaInvalida
		}
		if !original.Pendente() || original.MaterialID != linha.MaterialID {
			return domain.ErrEntradaInvalida
		}
		vistos[*linha.ItemOrigemID] = true
	}
	return nil
}
