package romaneio_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcamargo/almoxarifado-api/internal/application/romaneio"
	"github.com/gcamargo/almoxarifado-api/internal/domain"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
)

// criaRetirada monta uma retirada pendente do almoxarifado padrão para cc-obra
// com uma linha por material informado.
func criaRetirada(t *testing.T, a *ambiente, linhas ...romaneio.LinhaInput) *entity.Romaneio {
	t.Helper()
	out, err := a.criar.Criar(context.Background(), romaneio.CriarRomaneioInput{
		Tipo:                 entity.TipoRetirada,
		CentroCustoOrigemID:  centroPadraoID,
		CentroCustoDestinoID: "cc-obra",
		UsuarioID:            "user-1",
		Linhas:               linhas,
	})
	require.NoError(t, err)
	return out.Romaneio
}

func TestAprovarRetirada_DebitaSaldoETransferePosse(t *testing.T) {
	a := novoAmbiente()
	a.novoMaterial("mat-1", 50, centroPadraoID)
	ctx := context.Background()

	rom := criaRetirada(t, a, romaneio.LinhaInput{MaterialID: "mat-1", Quantidade: qtd(10)})
	require.NoError(t, a.aprovador.Aprovar(ctx, rom.ID, "user-1"))

	mat, err := a.materiais.GetByID("mat-1")
	require.NoError(t, err)
	assert.True(t, mat.Quantidade.Equal(qtd(40)), "saldo deve cair para 40, got %s", mat.Quantidade)
	assert.Equal(t, "cc-obra", mat.CentroCustoID, "posse deve passar ao destino")

	atualizado, err := a.romaneios.GetByID(rom.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRetirado, atualizado.Status)

	movs, err := a.movimentos.ListByRomaneio(rom.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovimentoSaida, movs[0].Tipo)
	assert.True(t, movs[0].QuantidadeAnterior.Equal(qtd(50)))
	assert.True(t, movs[0].QuantidadePosterior.Equal(qtd(40)))
	require.NotNil(t, movs[0].UsuarioID)
	assert.Equal(t, "user-1", *movs[0].UsuarioID)
}

func TestAprovar_LancamentosGanhamSequenciaDeAplicacao(t *testing.T) {
	a := novoAmbiente()
	a.novoMaterial("mat-1", 50, centroPadraoID)
	ctx := context.Background()

	// As duas linhas são lançadas no mesmo instante (mesmo criado_em); a ordem
	// de aplicação vem da sequência, não do relógio.
	rom := criaRetirada(t, a,
		romaneio.LinhaInput{MaterialID: "mat-1", Quantidade: qtd(10)},
		romaneio.LinhaInput{MaterialID: "mat-1", Quantidade: qtd(10)},
	)
	require.NoError(t, a.aprovador.Aprovar(ctx, rom.ID, "user-1"))

	movs, err := a.movimentos.ListByRomaneio(rom.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Less(t, movs[0].Sequencia, movs[1].Sequencia)
	assert.True(t, movs[0].QuantidadePosterior.Equal(qtd(40)))
	assert.True(t, movs[1].QuantidadePosterior.Equal(qtd(30)))

	// O histórico do material sai do mais recente para o mais antigo.
	historico, err := a.movimentos.ListByMaterial("mat-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, historico, 2)
	assert.True(t, historico[0].QuantidadePosterior.Equal(qtd(30)))
	assert.True(t, historico[1].QuantidadePosterior.Equal(qtd(40)))
}

func TestAprovarEntrada_CreditaSaldo(t *testing.T) {
	a := novoAmbiente()
	a.novoMaterial("mat-1", 5, centroPadraoID)
	ctx := context.Background()

	out, err := a.criar.Criar(ctx, romaneio.CriarRomaneioInput{
		Tipo:                 entity.TipoEntrada,
		CentroCustoDestinoID: centroPadraoID,
		Linhas:               []romaneio.LinhaInput{{MaterialID: "mat-1", Quantidade: qtd(20)}},
	})
	require.NoError(t, err)
	require.NoError(t, a.aprovador.Aprovar(ctx, out.Romaneio.ID, "user-1"))

	mat, _ := a.materiais.GetByID("mat-1")
	assert.True(t, mat.Quantidade.Equal(qtd(25)))
	// Entrada não muda o dono do material.
	assert.Equal(t, centroPadraoID, mat.CentroCustoID)

	atualizado, _ := a.romaneios.GetByID(out.Romaneio.ID)
	assert.Equal(t, entity.StatusAprovado, atualizado.Status)
}

func TestAprovarRetirada_SaldoInsuficienteAbortaTudo(t *testing.T) {
	a := novoAmbiente()
	a.novoMaterial("mat-1", 10, centroPadraoID)
	a.novoMaterial("mat-2", 100, centroPadraoID)
	ctx := context.Background()

	// mat-2 seria debitado antes de mat-1 falhar; o rollback desfaz os dois.
	rom := criaRetirada(t, a,
		romaneio.LinhaInput{MaterialID: "mat-2", Quantidade: qtd(30)},
		romaneio.LinhaInput{MaterialID: "mat-1", Quantidade: qtd(15)},
	)
	err := a.aprovador.Aprovar(ctx, rom.ID, "user-1")
	require.ErrorIs(t, err, domain.ErrEstoqueInsuficiente)
	assert.Contains(t, err.Error(), "mat-1")

	mat1, _ := a.materiais.GetByID("mat-1")
	mat2, _ := a.materiais.GetByID("mat-2")
	assert.True(t, mat1.Quantidade.Equal(qtd(10)), "saldo de mat-1 intacto")
	assert.True(t, mat2.Quantidade.Equal(qtd(100)), "débito de mat-2 desfeito pelo rollback")
	assert.Equal(t, centroPadraoID, mat2.CentroCustoID)

	atualizado, _ := a.romaneios.GetByID(rom.ID)
	assert.Equal(t, entity.StatusPendente, atualizado.Status, "romaneio segue pendente")

	movs, _ := a.movimentos.ListByRomaneio(rom.ID)
	assert.Empty(t, movs, "nenhum lançamento da chamada falhada pode persistir")
}

func TestAprovar_SegundaChamadaFalhaComStatus(t *testing.T) {
	a := novoAmbiente()
	a.novoMaterial("mat-1", 50, centroPadraoID)
	ctx := context.Background()

	rom := criaRetirada(t, a, romaneio.LinhaInput{MaterialID: "mat-1", Quantidade: qtd(10)})
	require.NoError(t, a.aprovador.Aprovar(ctx, rom.ID, "user-1"))

	err := a.aprovador.Aprovar(ctx, rom.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrStatusRomaneio)

	// O saldo foi debitado exatamente uma vez.
	mat, _ := a.materiais.GetByID("mat-1")
	assert.True(t, mat.Quantidade.Equal(qtd(40)))
}

func TestAprovar_RomaneioInexistente(t *testing.T) {
	a := novoAmbiente()
	err := a.aprovador.Aprovar(context.Background(), "rom-fantasma", "user-1")
	assert.ErrorIs(t, err, domain.ErrNaoEncontrado)
}

func TestAprovarTransferencia_MantemStatusAprovado(t *testing.T) {
	a := novoAmbiente()
	a.novoMaterial("mat-1", 50, centroPadraoID)
	ctx := context.Background()

	out, err := a.criar.Criar(ctx, romaneio.CriarRomaneioInput{
		Tipo:                 entity.TipoTransferencia,
		CentroCustoOrigemID:  centroPadraoID,
		CentroCustoDestinoID: "cc-obra",
		Linhas:               []romaneio.LinhaInput{{MaterialID: "mat-1", Quantidade: qtd(8)}},
	})
	require.NoError(t, err)
	require.NoError(t, a.aprovador.Aprovar(ctx, out.Romaneio.ID, "user-1"))

	atualizado, _ := a.romaneios.GetByID(out.Romaneio.ID)
	assert.Equal(t, entity.StatusAprovado, atualizado.Status)

	mat, _ := a.materiais.GetByID("mat-1")
	assert.True(t, mat.Quantidade.Equal(qtd(42)))
	assert.Equal(t, "cc-obra", mat.CentroCustoID)
}

func TestCancelar(t *testing.T) {
	a := novoAmbiente()
	a.novoMaterial("mat-1", 50, centroPadraoID)
	ctx := context.Background()

	rom := criaRetirada(t, a, romaneio.LinhaInput{MaterialID: "mat-1", Quantidade: qtd(10)})
	require.NoError(t, a.aprovador.Cancelar(ctx, rom.ID))

	atualizado, _ := a.romaneios.GetByID(rom.ID)
	assert.Equal(t, entity.StatusCancelado, atualizado.Status)

	// Cancelado não aprova mais.
	assert.ErrorIs(t, a.aprovador.Aprovar(ctx, rom.ID, "user-1"), domain.ErrStatusRomaneio)

	// Aprovado não cancela por aqui.
	rom2 := criaRetirada(t, a, romaneio.LinhaInput{MaterialID: "mat-1", Quantidade: qtd(10)})
	require.NoError(t, a.aprovador.Aprovar(ctx, rom2.ID, "user-1"))
	assert.ErrorIs(t, a.aprovador.Cancelar(ctx, rom2.ID), domain.ErrStatusRomaneio)
}
