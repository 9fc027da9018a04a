package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type TickerEntry struct {
	Ticker   string   `json:"ticker" yaml:"ticker"`
	DivYield *float64 `json:"divYield,omitempty" yaml:"divYield,omitempty"`
}

// TickerMap maps a batch key (usually the ticker itself, but indices use a
// synthetic key) to its entry. Keys keep the order they were added in, which
// is the order the batch processes them.
type TickerMap struct {
	keys    []string
	entries map[string]*TickerEntry
}

func (tm *TickerMap) Set(key string, entry *TickerEntry) {
	if tm.entries == nil {
		tm.entries = make(map[string]*TickerEntry)
	}

	if _, ok := tm.entries[key]; !ok {
		tm.keys = append(tm.keys, key)
	}

	tm.entries[key] = entry
}

func (tm TickerMap) Get(key string) (*TickerEntry, bool) {
	entry, ok := tm.entries[key]
	return entry, ok
}

func (tm TickerMap) Len() int {
	return len(tm.keys)
}

// OrderedKeys returns the keys in insertion order.
func (tm TickerMap) OrderedKeys() []string {
	keys := make([]string, len(tm.keys))
	copy(keys, tm.keys)

	return keys
}

// UnmarshalYAML walks the mapping node directly so the document's key order
// survives into the batch order.
func (tm *TickerMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("tickerMap must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		var entry TickerEntry
		if err := valueNode.Decode(&entry); err != nil {
			return fmt.Errorf("tickerMap entry %s: %v", keyNode.Value, err)
		}

		tm.Set(keyNode.Value, &entry)
	}

	return nil
}

// MarshalJSON writes the entries as an object in insertion order.
func (tm TickerMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range tm.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyData, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyData)
		buf.WriteByte(':')

		entryData, err := json.Marshal(tm.entries[key])
		if err != nil {
			return nil, err
		}
		buf.Write(entryData)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON streams the object token by token to keep the file's key
// order.
func (tm *TickerMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("tickerMap: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tickerMap must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("tickerMap: %v", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("tickerMap: unexpected key token %v", keyTok)
		}

		var entry TickerEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("tickerMap entry %s: %v", key, err)
		}

		tm.Set(key, &entry)
	}

	return nil
}

// SaveTickerMap persists the enriched ticker map, including any resolved
// dividend yields, so a later run can skip the scrape sweep.
func SaveTickerMap(path string, tm TickerMap) error {
	data, err := json.Marshal(tm)
	if err != nil {
		return fmt.Errorf("failed to marshal ticker map: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}

	return nil
}

// LoadDivYields rebuilds a dividend map from a previously saved ticker map
// file. Entries without a stored yield resolve to 0.
func LoadDivYields(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}

	var tm TickerMap
	if err := json.Unmarshal(data, &tm); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v", path, err)
	}

	divMap := make(map[string]float64, tm.Len())
	for _, key := range tm.OrderedKeys() {
		entry, _ := tm.Get(key)
		if entry != nil && entry.DivYield != nil {
			divMap[key] = *entry.DivYield
		} else {
			divMap[key] = 0
		}
	}

	return divMap, nil
}
