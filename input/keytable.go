package input

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lixenwraith/keysynth/constant"
)

// Rune aliases for keys that are awkward as bare YAML scalars
var runeAliases = map[string]rune{
	"space":     ' ',
	"semicolon": ';',
	"comma":     ',',
	"period":    '.',
	"slash":     '/',
	"backslash": '\\',
}

// KeyBinding is the configuration form of one key→pitch entry
type KeyBinding struct {
	Key       string  `yaml:"key"`
	Frequency float64 `yaml:"frequency"`
}

// KeyTable maps lower-case keys to fundamental frequencies in Hz
type KeyTable struct {
	freqs map[rune]float64
	order []rune
}

// DefaultKeyTable returns the home-row layout, A4 upward
func DefaultKeyTable() *KeyTable {
	kt, _ := NewKeyTable(DefaultBindings())
	return kt
}

// DefaultBindings returns the home-row layout as configuration entries
func DefaultBindings() []KeyBinding {
	return []KeyBinding{
		{"a", 440.00},  // A4
		{"s", 493.88},  // B4
		{"d", 523.25},  // C5
		{"f", 587.33},  // D5
		{"g", 659.25},  // E5
		{"h", 698.46},  // F5
		{"j", 783.99},  // G5
		{"k", 880.00},  // A5
		{"l", 987.77},  // B5
		{";", 1046.50}, // C6
	}
}

// NewKeyTable validates bindings and builds the lookup
func NewKeyTable(bindings []KeyBinding) (*KeyTable, error) {
	if len(bindings) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrInvalidKeyTable)
	}

	kt := &KeyTable{
		freqs: make(map[rune]float64, len(bindings)),
		order: make([]rune, 0, len(bindings)),
	}
	for _, b := range bindings {
		key, err := parseKey(b.Key)
		if err != nil {
			return nil, err
		}
		if key == constant.QuitKey || key == constant.KeyCtrlC {
			return nil, fmt.Errorf("%w: %q is reserved for quit", ErrInvalidKeyTable, b.Key)
		}
		if b.Frequency <= 0 {
			return nil, fmt.Errorf("%w: key %q frequency %g", ErrInvalidKeyTable, b.Key, b.Frequency)
		}
		if _, dup := kt.freqs[key]; dup {
			return nil, fmt.Errorf("%w: key %q bound twice", ErrInvalidKeyTable, b.Key)
		}
		kt.freqs[key] = b.Frequency
		kt.order = append(kt.order, key)
	}
	return kt, nil
}

// parseKey resolves a single character or alias to its lower-case rune
func parseKey(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("%w: key %q must be a single character", ErrInvalidKeyTable, s)
	}
	return unicode.ToLower(r), nil
}

// Frequency returns the pitch bound to key
func (kt *KeyTable) Frequency(key rune) (float64, bool) {
	f, ok := kt.freqs[key]
	return f, ok
}

// Keys returns bound keys in configuration order
func (kt *KeyTable) Keys() []rune {
	out := make([]rune, len(kt.order))
	copy(out, kt.order)
	return out
}

// Len returns the number of bound keys
func (kt *KeyTable) Len() int {
	return len(kt.order)
}

// Legend renders "a s d ..." for help lines
func (kt *KeyTable) Legend() string {
	parts := make([]string, len(kt.order))
	for i, k := range kt.order {
		parts[i] = string(k)
	}
	return strings.Join(parts, " ")
}
