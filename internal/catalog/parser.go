package catalog

// Package catalog provides catalog fixture parsing functionality.

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Stores   []Store   `yaml:"stores"`
	Products []Product `yaml:"products"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(content []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(content, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &catalog, nil
}

func (p *Parser) ParseFromString(content string) (*Catalog, error) {
	return p.Parse([]byte(content))
}
