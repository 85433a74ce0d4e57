package romaneio_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gcamargo/almoxarifado-api/internal/application/romaneio"
	"github.com/gcamargo/almoxarifado-api/internal/domain"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes em memória dos portos de persistência, com semântica transacional:
// o TxRunner fake tira um snapshot do estado antes de fn e restaura em caso de
// erro, emulando o rollback do banco.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	romaneios  map[string]*entity.Romaneio
	itens      map[string]*entity.RomaneioItem
	ordemItens []string
	movimentos map[string]*entity.MovimentoEstoque
	ordemMovs  []string
	materiais  map[string]*entity.Material
	centros    map[string]*entity.CentroCusto
	seq        map[string]int64
	seqMov     int64

	seqErr error // força falha do contador de sequência
	// falhaSaldoMaterial força erro em UpdateSaldo para um material específico
	// (simula falha parcial de estorno).
	falhaSaldoMaterial string
}

func newMemStore() *memStore {
	return &memStore{
		romaneios:  map[string]*entity.Romaneio{},
		itens:      map[string]*entity.RomaneioItem{},
		movimentos: map[string]*entity.MovimentoEstoque{},
		materiais:  map[string]*entity.Material{},
		centros:    map[string]*entity.CentroCusto{},
		seq:        map[string]int64{},
	}
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.romaneios {
		cp := *v
		c.romaneios[k] = &cp
	}
	for k, v := range s.itens {
		cp := *v
		c.itens[k] = &cp
	}
	for k, v := range s.movimentos {
		cp := *v
		c.movimentos[k] = &cp
	}
	for k, v := range s.materiais {
		cp := *v
		c.materiais[k] = &cp
	}
	for k, v := range s.centros {
		cp := *v
		c.centros[k] = &cp
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	c.ordemItens = append([]string(nil), s.ordemItens...)
	c.ordemMovs = append([]string(nil), s.ordemMovs...)
	c.seqMov = s.seqMov
	c.seqErr = s.seqErr
	c.falhaSaldoMaterial = s.falhaSaldoMaterial
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.romaneios = snap.romaneios
	s.itens = snap.itens
	s.ordemItens = snap.ordemItens
	s.movimentos = snap.movimentos
	s.ordemMovs = snap.ordemMovs
	s.materiais = snap.materiais
	s.centros = snap.centros
	s.seq = snap.seq
	s.seqMov = snap.seqMov
}

// ── repositórios ─────────────────────────────────────────────────────────────

type romaneioRepoFake struct{ s *memStore }

func (r *romaneioRepoFake) Create(rom *entity.Romaneio) error {
	// Emula o índice único parcial de devoluções em aberto.
	if rom.Tipo == entity.TipoDevolucao && rom.RomaneioOrigemID != nil {
		aberta, _ := r.ExisteDevolucaoAberta(*rom.RomaneioOrigemID)
		if aberta {
			return domain.ErrDevolucaoEmAberto
		}
	}
	cp := *rom
	r.s.romaneios[rom.ID] = &cp
	return nil
}

func (r *romaneioRepoFake) GetByID(id string) (*entity.Romaneio, error) {
	rom, ok := r.s.romaneios[id]
	if !ok {
		return nil, nil
	}
	cp := *rom
	return &cp, nil
}

func (r *romaneioRepoFake) GetForUpdate(id string) (*entity.Romaneio, error) {
	return r.GetByID(id)
}

func (r *romaneioRepoFake) UpdateStatus(id, status string, em time.Time) error {
	rom, ok := r.s.romaneios[id]
	if !ok {
		return domain.ErrNaoEncontrado
	}
	rom.Status = status
	rom.AtualizadoEm = em
	return nil
}

func (r *romaneioRepoFake) Delete(id string) error {
	delete(r.s.romaneios, id)
	return nil
}

func (r *romaneioRepoFake) ExisteDevolucaoAberta(origemID string) (bool, error) {
	for _, rom := range r.s.romaneios {
		if rom.Tipo == entity.TipoDevolucao && rom.RomaneioOrigemID != nil &&
			*rom.RomaneioOrigemID == origemID &&
			(rom.Status == entity.StatusPendente || rom.Status == entity.StatusAprovado) {
			return true, nil
		}
	}
	return false, nil
}

func (r *romaneioRepoFake) List(tipo string, limit, offset int) ([]*entity.Romaneio, error) {
	var list []*entity.Romaneio
	for _, rom := range r.s.romaneios {
		if tipo == "" || rom.Tipo == tipo {
			cp := *rom
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Numero < list[j].Numero })
	return list, nil
}

type itemRepoFake struct{ s *memStore }

func (r *itemRepoFake) Create(item *entity.RomaneioItem) error {
	cp := *item
	r.s.itens[item.ID] = &cp
	r.s.ordemItens = append(r.s.ordemItens, item.ID)
	return nil
}

func (r *itemRepoFake) GetByID(id string) (*entity.RomaneioItem, error) {
	item, ok := r.s.itens[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *itemRepoFake) ListByRomaneio(romaneioID string) ([]*entity.RomaneioItem, error) {
	var list []*entity.RomaneioItem
	for _, id := range r.s.ordemItens {
		item, ok := r.s.itens[id]
		if ok && item.RomaneioID == romaneioID {
			cp := *item
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *itemRepoFake) MarcarDevolvido(id string, em time.Time) (bool, error) {
	item, ok := r.s.itens[id]
	if !ok {
		return false, domain.ErrNaoEncontrado
	}
	if item.DevolvidoEm != nil {
		return false, nil
	}
	item.DevolvidoEm = &em
	return true, nil
}

func (r *itemRepoFake) LimparDevolucao(id string) error {
	item, ok := r.s.itens[id]
	if !ok {
		return domain.ErrNaoEncontrado
	}
	item.DevolvidoEm = nil
	return nil
}

func (r *itemRepoFake) DeleteByRomaneio(romaneioID string) error {
	for id, item := range r.s.itens {
		if item.RomaneioID == romaneioID {
			delete(r.s.itens, id)
		}
	}
	return nil
}

type movimentoRepoFake struct{ s *memStore }

func (r *movimentoRepoFake) Create(mov *entity.MovimentoEstoque) error {
	r.s.seqMov++
	mov.Sequencia = r.s.seqMov
	cp := *mov
	r.s.movimentos[mov.ID] = &cp
	r.s.ordemMovs = append(r.s.ordemMovs, mov.ID)
	return nil
}

func (r *movimentoRepoFake) ListByMaterial(materialID string, limit, offset int) ([]*entity.MovimentoEstoque, error) {
	var list []*entity.MovimentoEstoque
	for i := len(r.s.ordemMovs) - 1; i >= 0; i-- {
		mov, ok := r.s.movimentos[r.s.ordemMovs[i]]
		if ok && mov.MaterialID == materialID {
			cp := *mov
			list = append(list, &cp)
		}
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *movimentoRepoFake) ListByRomaneio(romaneioID string) ([]*entity.MovimentoEstoque, error) {
	var list []*entity.MovimentoEstoque
	for _, id := range r.s.ordemMovs {
		mov, ok := r.s.movimentos[id]
		if ok && mov.RomaneioID != nil && *mov.RomaneioID == romaneioID {
			cp := *mov
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *movimentoRepoFake) Delete(id string) error {
	delete(r.s.movimentos, id)
	return nil
}

type materialRepoFake struct{ s *memStore }

func (r *materialRepoFake) Create(m *entity.Material) error {
	cp := *m
	r.s.materiais[m.ID] = &cp
	return nil
}

func (r *materialRepoFake) GetByID(id string) (*entity.Material, error) {
	m, ok := r.s.materiais[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *materialRepoFake) GetForUpdate(id string) (*entity.Material, error) {
	return r.GetByID(id)
}

func (r *materialRepoFake) UpdateSaldo(id string, q decimal.Decimal, em time.Time) error {
	if id == r.s.falhaSaldoMaterial {
		return errors.New("falha simulada de saldo")
	}
	m, ok := r.s.materiais[id]
	if !ok {
		return domain.ErrNaoEncontrado
	}
	m.Quantidade = q
	m.AtualizadoEm = em
	return nil
}

func (r *materialRepoFake) UpdateCentroCusto(id, centroCustoID string, em time.Time) error {
	m, ok := r.s.materiais[id]
	if !ok {
		return domain.ErrNaoEncontrado
	}
	m.CentroCustoID = centroCustoID
	m.AtualizadoEm = em
	return nil
}

func (r *materialRepoFake) List(limit, offset int) ([]*entity.Material, error) {
	var list []*entity.Material
	for _, m := range r.s.materiais {
		cp := *m
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Codigo < list[j].Codigo })
	return list, nil
}

type centroRepoFake struct{ s *memStore }

func (r *centroRepoFake) Create(cc *entity.CentroCusto) error {
	cp := *cc
	r.s.centros[cc.ID] = &cp
	return nil
}

func (r *centroRepoFake) GetByID(id string) (*entity.CentroCusto, error) {
	cc, ok := r.s.centros[id]
	if !ok {
		return nil, nil
	}
	cp := *cc
	return &cp, nil
}

func (r *centroRepoFake) List(limit, offset int) ([]*entity.CentroCusto, error) {
	var list []*entity.CentroCusto
	for _, cc := range r.s.centros {
		cp := *cc
		list = append(list, &cp)
	}
	return list, nil
}

type funcionarioRepoFake struct {
	funcionarios map[string]*entity.Funcionario
}

func (r *funcionarioRepoFake) Create(f *entity.Funcionario) error {
	r.funcionarios[f.ID] = f
	return nil
}

func (r *funcionarioRepoFake) GetByID(id string) (*entity.Funcionario, error) {
	f, ok := r.funcionarios[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

type sequenciaRepoFake struct{ s *memStore }

func (r *sequenciaRepoFake) Proximo(chave string) (int64, error) {
	if r.s.seqErr != nil {
		return 0, r.s.seqErr
	}
	r.s.seq[chave]++
	return r.s.seq[chave], nil
}

// ── TxRunner com rollback por snapshot ───────────────────────────────────────

type txRunnerFake struct{ s *memStore }

func (t *txRunnerFake) Run(ctx context.Context, fn func(r romaneio.Repos) error) error {
	snap := t.s.snapshot()
	err := fn(romaneio.Repos{
		Romaneios:  &romaneioRepoFake{s: t.s},
		Itens:      &itemRepoFake{s: t.s},
		Movimentos: &movimentoRepoFake{s: t.s},
		Materiais:  &materialRepoFake{s: t.s},
	})
	if err != nil {
		t.s.restore(snap)
	}
	return err
}

// ── ambiente de teste montado ────────────────────────────────────────────────

type ambiente struct {
	store      *memStore
	txRunner   *txRunnerFake
	romaneios  *romaneioRepoFake
	itens      *itemRepoFake
	movimentos *movimentoRepoFake
	materiais  *materialRepoFake
	centros    *centroRepoFake
	pessoal    *funcionarioRepoFake

	numerador  *romaneio.Numerador
	aprovador  *romaneio.AprovarRomaneioUseCase
	criar      *romaneio.CriarRomaneioUseCase
	devolucoes *romaneio.DevolucaoService
	excluir    *romaneio.ExcluirRomaneioUseCase
}

const centroPadraoID = "cc-almoxarifado"

func novoAmbiente() *ambiente {
	s := newMemStore()
	a := &ambiente{
		store:      s,
		txRunner:   &txRunnerFake{s: s},
		romaneios:  &romaneioRepoFake{s: s},
		itens:      &itemRepoFake{s: s},
		movimentos: &movimentoRepoFake{s: s},
		materiais:  &materialRepoFake{s: s},
		centros:    &centroRepoFake{s: s},
		pessoal:    &funcionarioRepoFake{funcionarios: map[string]*entity.Funcionario{}},
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	a.numerador = romaneio.NewNumerador(&sequenciaRepoFake{s: s}, log)
	a.aprovador = romaneio.NewAprovarRomaneioUseCase(a.txRunner)
	a.criar = romaneio.NewCriarRomaneioUseCase(a.txRunner, a.romaneios, a.itens, a.materiais, a.centros, a.pessoal, a.numerador, a.aprovador, log)
	a.devolucoes = romaneio.NewDevolucaoService(a.txRunner, a.romaneios, a.itens, a.criar, centroPadraoID)
	a.excluir = romaneio.NewExcluirRomaneioUseCase(a.txRunner, a.romaneios, a.movimentos, centroPadraoID, log)

	a.centros.Create(&entity.CentroCusto{ID: centroPadraoID, Codigo: "ALM-01", Nome: "Almoxarifado Central"})
	a.centros.Create(&entity.CentroCusto{ID: "cc-obra", Codigo: "OBR-01", Nome: "Obra Matriz"})
	return a
}

func (a *ambiente) novoMaterial(id string, saldo int64, centroCustoID string) {
	a.materiais.Create(&entity.Material{
		ID:            id,
		Codigo:        "MAT-" + id,
		Descricao:     "material de teste " + id,
		Unidade:       "un",
		Quantidade:    decimal.NewFromInt(saldo),
		CentroCustoID: centroCustoID,
	})
}

func qtd(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
