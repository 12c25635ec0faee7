package main

import (
	"fmt"
	"log"
	"os"

	"agents-manager/core/document"
)

// Prints the canonical form and hash of config files, as push and status see them.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_hash <config.json>...")
	}

	for _, path := range os.Args[1:] {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatal(err)
		}
		doc, err := document.Decode(raw)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}

		snake := document.DefaultNormalizer.Apply(document.Snake, doc)
		fmt.Printf("=== %s ===\n", path)
		fmt.Printf("Name:      %s\n", doc.Name())
		fmt.Printf("Raw hash:  %s\n", document.Hash(doc))
		fmt.Printf("Hash:      %s\n", document.Hash(snake))
		fmt.Printf("Canonical: %s\n", document.Canonical(snake))
	}
}
