package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"orghierarchy/src/domain"
	"orghierarchy/src/repositories"
	"orghierarchy/src/services/datagen"
)

// Gera um dataset de organização em JSON, pronto para DATASET_FILE do
// servidor.
func main() {
	size := flag.Int("size", 1000, "Número de empregados. Use 0 para o dataset de exemplo.")
	seed := flag.Int64("seed", 42, "Seed da estrutura (ids, gerentes, departamentos).")
	out := flag.String("out", "", "Arquivo de saída. Vazio escreve no stdout.")
	flag.Parse()

	dataset := datagen.SampleDataset()
	if *size > 0 {
		dataset = datagen.RandomDataset(*size, *seed)
	}

	// Nunca grava um dataset que o servidor recusaria
	store, err := repositories.Load(dataset)
	if err != nil {
		var loadErr *domain.LoadError
		if errors.As(err, &loadErr) {
			for _, v := range loadErr.Violations {
				log.Printf("violation: %s", v)
			}
		}
		log.Fatalf("Generated dataset is invalid: %v", err)
	}

	output := os.Stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *out, err)
		}
		defer file.Close()
		output = file
	}

	if err := datagen.WriteDataset(output, dataset); err != nil {
		log.Fatalf("Failed to write dataset: %v", err)
	}

	log.Printf("Dataset written: %d employees, %d departments, snapshot %s", store.Size(), len(dataset.Departments), store.SnapshotID())
}
