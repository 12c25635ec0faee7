package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"agents-manager/core/config"
	"agents-manager/core/gateway"
	"agents-manager/core/manifest"
	"agents-manager/core/reconcile"
	"agents-manager/core/resource"

	"go.uber.org/zap"
)

// Prints the push and pull plans of one kind as JSON without changing anything.
func main() {
	kindName := "agent"
	if len(os.Args) > 1 {
		kindName = os.Args[1]
	}
	kind, err := resource.Parse(kindName)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	store, err := manifest.NewStore(".")
	if err != nil {
		log.Fatal(err)
	}

	gw, err := gateway.New(cfg.Remote, cfg.Storage, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}

	engine := reconcile.NewEngine(store, gw, zap.NewNop(), cfg.Reconcile)
	ctx := context.Background()

	fmt.Println("=== PUSH PLAN ===")
	push, err := engine.PlanPush(ctx, kind, reconcile.PushOptions{})
	if err != nil {
		log.Fatal(err)
	}
	printJSON(push)

	fmt.Println("=== PULL PLAN (all) ===")
	pull, err := engine.PlanPull(ctx, kind, reconcile.PullOptions{Mode: reconcile.PullAll})
	if err != nil {
		log.Fatal(err)
	}
	printJSON(pull)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
