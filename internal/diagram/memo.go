package diagram

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Memo caches layouts by their inputs. Cached results are shared and must
// not be modified.
type Memo struct {
	cache *lru.Cache[string, Result]
}

func NewMemo(size int) (*Memo, error) {
	cache, err := lru.New[string, Result](size)
	if err != nil {
		return nil, fmt.Errorf("create layout memo: %w", err)
	}
	return &Memo{cache: cache}, nil
}

func (m *Memo) Layout(d entity.Diagram, canvas Canvas) Result {
	key := memoKey(d, canvas)
	if res, ok := m.cache.Get(key); ok {
		return res
	}
	res := Layout(d.Nodes, d.Edges, canvas)
	m.cache.Add(key, res)
	return res
}

func (m *Memo) Len() int {
	return m.cache.Len()
}

func memoKey(d entity.Diagram, canvas Canvas) string {
	raw, _ := json.Marshal(struct {
		D entity.Diagram
		C Canvas
	}{d, canvas})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
