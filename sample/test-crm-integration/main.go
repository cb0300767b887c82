package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/crmapi"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/viacep"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// Smoke test against a real CRM API: loads the funnel, prints the column counts and,
// with -advance, moves one entry forward.
func main() {
	advance := flag.String("advance", "", "entry id to advance one stage")
	cep := flag.String("cep", "", "postal code to look up on ViaCEP")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Aviso: arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	baseURL := os.Getenv("CRM_API_URL")
	if baseURL == "" {
		log.Fatal("❌ CRM_API_URL deve estar configurado no .env")
	}

	zl := logger.New(logger.Config{Level: "debug", Format: "console"})
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := crmapi.NewClient(baseURL, os.Getenv("CRM_API_TOKEN"), zl)
	addresses := viacep.NewClient(os.Getenv("VIACEP_URL"))
	board := usecase.NewBoard(client, addresses, nil, zl)
	defer board.Close()

	fmt.Println("🔄 Carregando funil...")
	if err := board.Load(ctx); err != nil {
		log.Fatalf("Erro ao carregar funil: %v", err)
	}

	counts := board.Columns(usecase.Filters{}).Counts()
	fmt.Printf("📋 Funil com %d entradas:\n", board.Store.Len())
	for stage, n := range counts {
		fmt.Printf("   %-10s %d\n", stage, n)
	}

	if *advance != "" {
		change, err := board.Advance(ctx, *advance)
		if err != nil {
			log.Fatalf("Erro ao avançar %s: %s", *advance, usecase.NoticeFor(err, "falha desconhecida").Message)
		}
		fmt.Printf("✅ %s: %s → %s\n", change.Entry.ID, change.From, change.To)
	}

	if *cep != "" {
		addr, err := addresses.Lookup(ctx, *cep)
		if err != nil {
			log.Fatalf("Erro no ViaCEP: %v", err)
		}
		fmt.Printf("📍 %s, %s - %s/%s\n", addr.Street, addr.Neighborhood, addr.City, addr.State)
	}
}
