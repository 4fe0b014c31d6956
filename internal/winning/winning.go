// Package winning loads the prize table a draw is checked against.
package winning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/okian/ticketscan/internal/domain/model"
)

// Supported table formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

//go:embed schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("winning.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return c.Compile("winning.schema.json")
})

// Load reads the table at path. An empty path yields the built-in demo draw.
func Load(path string) (model.WinningNumbers, error) {
	if path == "" {
		return model.DefaultWinningNumbers(), nil
	}
	parser, err := parserFor(formatOf(path))
	if err != nil {
		return model.WinningNumbers{}, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return model.WinningNumbers{}, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return decode(k)
}

// Parse reads a table from memory. format is FormatYAML or FormatJSON.
func Parse(data []byte, format string) (model.WinningNumbers, error) {
	parser, err := parserFor(format)
	if err != nil {
		return model.WinningNumbers{}, err
	}
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return model.WinningNumbers{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return decode(k)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

func parserFor(format string) (koanf.Parser, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		return yaml.Parser(), nil
	case FormatJSON:
		return kjson.Parser(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// decode validates the loaded map against the schema, then the
// cross-field rules of model.WinningNumbers.
func decode(k *koanf.Koanf) (model.WinningNumbers, error) {
	raw, err := json.Marshal(k.Raw())
	if err != nil {
		return model.WinningNumbers{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	schema, err := compileSchema()
	if err != nil {
		return model.WinningNumbers{}, fmt.Errorf("compile winning schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.WinningNumbers{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := schema.Validate(doc); err != nil {
		return model.WinningNumbers{}, fmt.Errorf("%w: %w", model.ErrInvalidWinningNumbers, err)
	}

	var t table
	if err := json.Unmarshal(raw, &t); err != nil {
		return model.WinningNumbers{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	w := t.model()
	if err := w.Validate(); err != nil {
		return model.WinningNumbers{}, err
	}
	return w, nil
}

// fourD accepts 4D numbers written as integers or as zero-padded strings.
type fourD int

func (n *fourD) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("4d number %s: %w", b, err)
	}
	*n = fourD(v)
	return nil
}

type table struct {
	DrawDate string `json:"draw_date"`
	TOTO     struct {
		Numbers    []int `json:"numbers"`
		Additional int   `json:"additional"`
	} `json:"toto"`
	FourD struct {
		First       fourD   `json:"first"`
		Second      fourD   `json:"second"`
		Third       fourD   `json:"third"`
		Starter     []fourD `json:"starter"`
		Consolation []fourD `json:"consolation"`
	} `json:"four_d"`
}

func (t table) model() model.WinningNumbers {
	ints := func(ns []fourD) []int {
		out := make([]int, len(ns))
		for i, n := range ns {
			out[i] = int(n)
		}
		return out
	}
	return model.WinningNumbers{
		DrawDate: t.DrawDate,
		TOTO: model.TOTOWinning{
			Numbers:    append([]int(nil), t.TOTO.Numbers...),
			Additional: t.TOTO.Additional,
		},
		FourD: model.FourDWinning{
			First:       int(t.FourD.First),
			Second:      int(t.FourD.Second),
			Third:       int(t.FourD.Third),
			Starter:     ints(t.FourD.Starter),
			Consolation: ints(t.FourD.Consolation),
		},
	}
}
