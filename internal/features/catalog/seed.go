package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"contabil-site/internal/features/catalog/models"
)

//go:embed data/services.yaml
var embeddedServices []byte

// LoadSeed decodes the embedded services list
func LoadSeed() ([]models.ServiceCreate, error) {
	return decodeSeed(bytes.NewReader(embeddedServices))
}

func decodeSeed(r io.Reader) ([]models.ServiceCreate, error) {
	var seed []models.ServiceCreate

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode services seed: %w", err)
	}

	return seed, nil
}
