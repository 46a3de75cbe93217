package spec

import (
	"fmt"
	"io"
	"regexp"

	"github.com/nihei9/lrcomb/grammar"
	"github.com/pelletier/go-toml"
)

// LexicalConfig is the TOML lexical configuration of a grammar:
//
//	name = "assign"
//
//	[[terminal]]
//	name = "IDENT"
//	pattern = "[A-Za-z_][0-9A-Za-z_]*"
//
//	[[terminal]]
//	name = "="
//
//	[[skip]]
//	name = "white_space"
//	pattern = "[\\u{0009}\\u{0020}]+"
//
// The order of the terminal tables defines the order of the alphabet.
type LexicalConfig struct {
	Name      string          `toml:"name"`
	Terminals []*LexicalTable `toml:"terminal"`
	Skips     []*LexicalTable `toml:"skip"`
}

type LexicalTable struct {
	Name string `toml:"name"`

	// Pattern is a maleeni regular expression. A terminal without a pattern matches its
	// name literally.
	Pattern string `toml:"pattern,omitempty"`
}

var reLexSpecName = regexp.MustCompile(`^[A-Za-z_][0-9A-Za-z_]*$`)

// ReadLexicalConfig decodes and checks a lexical configuration.
func ReadLexicalConfig(src io.Reader) (*LexicalConfig, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	config := &LexicalConfig{}
	if err := toml.Unmarshal(buf, config); err != nil {
		return nil, fmt.Errorf("invalid lexical configuration: %w", err)
	}
	if err := config.check(); err != nil {
		return nil, err
	}
	tracer().Debugf("lexical configuration: %v terminals, %v skips", len(config.Terminals), len(config.Skips))
	return config, nil
}

func (c *LexicalConfig) check() error {
	if c.Name != "" && !reLexSpecName.MatchString(c.Name) {
		return fmt.Errorf("a name must be an identifier: %v", c.Name)
	}
	if len(c.Terminals) == 0 {
		return fmt.Errorf("a lexical configuration needs at least one terminal")
	}
	for _, t := range c.Terminals {
		if t.Name == "" {
			return fmt.Errorf("a terminal needs a name")
		}
	}
	for _, s := range c.Skips {
		if s.Name == "" || s.Pattern == "" {
			return fmt.Errorf("a skip entry needs a name and a pattern")
		}
	}
	return nil
}

// Alphabet returns the alphabet made of the terminals in order.
func (c *LexicalConfig) Alphabet() (*grammar.Alphabet, error) {
	descs := make([]string, len(c.Terminals))
	for i, t := range c.Terminals {
		descs[i] = t.Name
	}
	return grammar.NewAlphabet(descs...)
}

// LexicalSpec converts the configuration into the form grammar.Compile embeds.
func (c *LexicalConfig) LexicalSpec() *grammar.LexicalSpec {
	lex := &grammar.LexicalSpec{
		Name: c.Name,
	}
	for _, t := range c.Terminals {
		lex.Entries = append(lex.Entries, &grammar.LexicalEntry{
			Name:    t.Name,
			Pattern: t.Pattern,
		})
	}
	for _, s := range c.Skips {
		lex.Entries = append(lex.Entries, &grammar.LexicalEntry{
			Name:    s.Name,
			Pattern: s.Pattern,
			Skip:    true,
		})
	}
	return lex
}
