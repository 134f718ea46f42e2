package lycoris

import yaml "gopkg.in/yaml.v2"

// State snapshots carry the user dictionary as source text, not internal
// structures, so the format survives evaluator changes. Builtins and the
// stack are never persisted.

// DictEntry is one user word as exposed by DictionarySnapshot and the state
// blob: the name, the canonical text of the body, and the display color.
type DictEntry struct {
	Name  string `yaml:"name"`
	Body  string `yaml:"body"`
	Color string `yaml:"color"`
}

type stateDoc struct {
	Words []DictEntry `yaml:"words"`
}

func (e *Evaluator) saveState() ([]byte, error) {
	doc := stateDoc{Words: e.dictionarySnapshot()}
	blob, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, errf(CorruptState, "encoding state: %v", err)
	}
	return blob, nil
}

// loadState re-tokenizes each entry body and installs it. A corrupt entry
// is skipped and reported; the remaining entries still install. Entries are
// installed in blob order; a name in a body that is not yet defined is kept
// as a deferred reference, so a body may also refer to a later entry.
func (e *Evaluator) loadState(blob []byte) []error {
	var doc stateDoc
	if err := yaml.Unmarshal(blob, &doc); err != nil {
		return []error{errf(CorruptState, "decoding state: %v", err)}
	}
	var errs []error
	for _, entry := range doc.Words {
		if err := e.installEntry(entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (e *Evaluator) installEntry(entry DictEntry) error {
	toks, err := scan(entry.Body, &e.dict, e.maxExponent)
	if err != nil {
		return errf(CorruptState, "entry %q: %v", entry.Name, err)
	}
	if len(toks) != 1 || toks[0].kind != tokenValue {
		return errf(CorruptState, "entry %q: body is not a single vector", entry.Name)
	}
	body, ok := toks[0].val.(Vector)
	if !ok {
		return errf(CorruptState, "entry %q: body is not a vector", entry.Name)
	}
	color := entry.Color
	if color == "" {
		color = defaultWordColor
	}
	if err := e.dict.define(entry.Name, body, body.String(), color); err != nil {
		return errf(CorruptState, "entry %q: %v", entry.Name, err)
	}
	e.dict.commit()
	return nil
}

func (e *Evaluator) dictionarySnapshot() []DictEntry {
	entries := e.dict.userEntries()
	out := make([]DictEntry, len(entries))
	for i, b := range entries {
		out[i] = DictEntry{Name: b.name, Body: b.source, Color: b.color}
	}
	return out
}
