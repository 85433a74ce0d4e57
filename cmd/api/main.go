package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gcamargo/almoxarifado-api/internal/application/estoque"
	"github.com/gcamargo/almoxarifado-api/internal/application/romaneio"
	"github.com/gcamargo/almoxarifado-api/internal/infrastructure/postgres"
	httpRouter "github.com/gcamargo/almoxarifado-api/internal/interfaces/http"
	"github.com/gcamargo/almoxarifado-api/pkg/config"
	"github.com/gcamargo/almoxarifado-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	materialRepo := postgres.NewMaterialRepository(pool)
	centroCustoRepo := postgres.NewCentroCustoRepository(pool)
	funcionarioRepo := postgres.NewFuncionarioRepository(pool)
	romaneioRepo := postgres.NewRomaneioRepository(pool)
	itemRepo := postgres.NewRomaneioItemRepository(pool)
	movimentoRepo := postgres.NewMovimentoEstoqueRepository(pool)
	sequenciaRepo := postgres.NewSequenciaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	numerador := romaneio.NewNumerador(sequenciaRepo, log)
	aprovadorUC := romaneio.NewAprovarRomaneioUseCase(txRunner)
	criarUC := romaneio.NewCriarRomaneioUseCase(txRunner, romaneioRepo, itemRepo, materialRepo, centroCustoRepo, funcionarioRepo, numerador, aprovadorUC, log)
	devolucaoSvc := romaneio.NewDevolucaoService(txRunner, romaneioRepo, itemRepo, criarUC, cfg.Estoque.CentroCustoPadraoID)
	excluirUC := romaneio.NewExcluirRomaneioUseCase(txRunner, romaneioRepo, movimentoRepo, cfg.Estoque.CentroCustoPadraoID, log)
	ledger := estoque.NewLedger(materialRepo, movimentoRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almoxarifado API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Criar:      criarUC,
		Aprovador:  aprovadorUC,
		Excluir:    excluirUC,
		Devolucoes: devolucaoSvc,
		Ledger:     ledger,
		Romaneios:  romaneioRepo,
		Movimentos: movimentoRepo,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("API no ar")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("encerrando aplicação")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown do servidor")
	}
}
