package main

import (
	"log"
	"net/http"
	"os"

	"github.com/trustbit/enterprise-rag-challenge-ui/internal/config"
	"github.com/trustbit/enterprise-rag-challenge-ui/internal/signer"
	"github.com/trustbit/enterprise-rag-challenge-ui/internal/store"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/domain"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/tsa"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	st, err := store.NewFileStore(cfg.StorageDir)
	if err != nil {
		log.Fatalf("open submission store: %v", err)
	}
	sg := signer.New(tsa.NewClient(cfg.TSAURL, nil))
	v := domain.Validator{
		Questions:      cfg.Questions,
		CheckQuestions: cfg.CheckQuestions,
		CheckKinds:     cfg.CheckKinds,
	}

	log.Printf("listening on %s (store %s)", cfg.ListenAddr, cfg.StorageDir)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, newRouter(cfg, v, sg, st)))
}
