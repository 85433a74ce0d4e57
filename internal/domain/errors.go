package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNaoEncontrado       = errors.New("recurso não encontrado")
	ErrEntradaInvalida     = errors.New("entrada inválida")
	ErrEstoqueInsuficiente = errors.New("estoque insuficiente")
	ErrStatusRomaneio      = errors.New("romaneio não está no status exigido")
	ErrDevolucaoEmAberto   = errors.New("já existe uma devolução em aberto para este romaneio")
	ErrConflito            = errors.New("conflito com o estado atual")
)
