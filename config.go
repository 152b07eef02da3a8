package main

import (
	"os"
	"strings"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/Feresey/joinpath/db"
	"github.com/Feresey/joinpath/parse"
)

type FileConfig struct {
	// postgres или sqlite, по умолчанию postgres
	Driver   string   `yaml:"driver"`
	DBConn   string   `yaml:"dbconn"`
	Patterns []string `yaml:"parser"`
	// Подсчитывать строки таблиц при чтении каталога
	RowCounts bool `yaml:"row_counts"`
}

type AppConfig struct {
	DB     db.Config
	Parser parse.Config
}

func (fc FileConfig) Build() (*AppConfig, error) {
	patterns, err := fc.parsePatterns(fc.Patterns)
	if err != nil {
		return nil, xerrors.Errorf("parse patterns failed: %w", err)
	}
	driver := db.Driver(strings.ToLower(fc.Driver))
	if driver == "" {
		driver = db.DriverPostgres
	}
	c := &AppConfig{
		DB: db.Config{
			Driver: driver,
			Conn:   fc.DBConn,
		},
		Parser: parse.Config{
			Patterns:  patterns,
			RowCounts: fc.RowCounts,
		},
	}
	if err := c.DB.Validate(); err != nil {
		return nil, xerrors.Errorf("database config: %w", err)
	}
	return c, nil
}

func ReadConfig(confPath string) (*AppConfig, error) {
	var fc FileConfig
	file, err := os.ReadFile(confPath)
	if err != nil {
		return nil, xerrors.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &fc); err != nil {
		return nil, xerrors.Errorf("parse config: %w", err)
	}

	c, err := fc.Build()
	if err != nil {
		return nil, xerrors.Errorf("process config data: %w", err)
	}
	return c, nil
}

// parsePatterns разбирает шаблоны вида schema[.table], части могут содержать
// LIKE-символы. Части в двойных кавычках берутся как есть.
func (fc FileConfig) parsePatterns(
	patterns []string,
) ([]parse.Pattern, error) {
	res := make([]parse.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		parts, err := splitPattern(pattern)
		if err != nil {
			return nil, xerrors.Errorf("wrong pattern %q: %w", pattern, err)
		}

		var p parse.Pattern
		switch {
		case len(parts) == 1:
			p.Schema = parts[0]
		case len(parts) == 2:
			p.Schema = parts[0]
			p.Tables = parts[1]
		default:
			return nil, xerrors.Errorf("wrong pattern: %q", pattern)
		}
		if p.Schema == "" {
			return nil, xerrors.Errorf("empty schema in pattern: %q", pattern)
		}
		res = append(res, p)
	}

	return res, nil
}

func splitPattern(pattern string) ([]string, error) {
	var (
		parts  []string
		part   strings.Builder
		quoted bool
	)
	for idx := 0; idx < len(pattern); idx++ {
		ch := pattern[idx]
		switch {
		case ch == '"' && quoted && idx+1 < len(pattern) && pattern[idx+1] == '"':
			part.WriteByte('"')
			idx++
		case ch == '"':
			quoted = !quoted
		case ch == '.' && !quoted:
			parts = append(parts, part.String())
			part.Reset()
		default:
			part.WriteByte(ch)
		}
	}
	if quoted {
		return nil, xerrors.New("unterminated quote")
	}
	return append(parts, part.String()), nil
}
