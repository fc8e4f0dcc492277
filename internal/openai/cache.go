package openai

import (
	"sync"

	"github.com/zeebo/blake3"
)

type cache struct {
	mu      sync.Mutex
	answers map[[32]byte]string
}

func newCache() *cache {
	return &cache{
		answers: make(map[[32]byte]string),
	}
}

func cacheKey(model, userPrompt string) [32]byte {
	h := blake3.New()
	h.WriteString(model)
	h.WriteString("\x00")
	h.WriteString(userPrompt)

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

func (c *cache) get(key [32]byte) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	answer, ok := c.answers[key]
	return answer, ok
}

func (c *cache) put(key [32]byte, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.answers[key] = answer
}
