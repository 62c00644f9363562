package datagen

import (
	"encoding/json"
	"fmt"
	"io"
	"orghierarchy/src/domain"
)

// WriteDataset grava o dataset como JSON indentado, no formato lido por
// ReadDataset.
func WriteDataset(w io.Writer, dataset domain.Dataset) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(dataset); err != nil {
		return fmt.Errorf("datagen.WriteDataset - %w", err)
	}
	return nil
}

// ReadDataset lê um dataset; campos desconhecidos são rejeitados.
func ReadDataset(r io.Reader) (domain.Dataset, error) {
	var dataset domain.Dataset

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&dataset); err != nil {
		return domain.Dataset{}, fmt.Errorf("datagen.ReadDataset - %w", err)
	}
	return dataset, nil
}
