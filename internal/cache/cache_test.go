package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestMemory_NamespacesAreIndependent(t *testing.T) {
	m := NewMemory()

	m.PutTranslation("a", "<p>译文</p>")
	if _, ok := m.Summary("a"); ok {
		t.Error("summary should not be set by PutTranslation")
	}

	m.PutSummary("a", "<p>摘要</p>")
	if got, ok := m.Translation("a"); !ok || got != "<p>译文</p>" {
		t.Errorf("Translation(a) = %q, %v", got, ok)
	}
	if got, ok := m.Summary("a"); !ok || got != "<p>摘要</p>" {
		t.Errorf("Summary(a) = %q, %v", got, ok)
	}
}

func TestMemory_Overwrite(t *testing.T) {
	m := NewMemory()
	m.PutTranslation("a", "first")
	m.PutTranslation("a", "second")

	if got, _ := m.Translation("a"); got != "second" {
		t.Errorf("Translation(a) = %q, want last write", got)
	}
}

func TestMemory_Invalidate(t *testing.T) {
	m := NewMemory()
	m.PutTranslation("a", "t")
	m.PutSummary("a", "s")
	m.PutTranslation("b", "t2")

	m.Invalidate("a")

	if _, ok := m.Translation("a"); ok {
		t.Error("translation for a should be gone")
	}
	if _, ok := m.Summary("a"); ok {
		t.Error("summary for a should be gone")
	}
	if _, ok := m.Translation("b"); !ok {
		t.Error("translation for b should remain")
	}

	// Invalidating an unknown id is a no-op
	m.Invalidate("missing")

	if tr, su := m.Len(); tr != 1 || su != 0 {
		t.Errorf("Len() = %d, %d, want 1, 0", tr, su)
	}
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", i%10)
			m.PutTranslation(id, "t")
			m.PutSummary(id, "s")
			m.Translation(id)
			m.Summary(id)
			if i%7 == 0 {
				m.Invalidate(id)
			}
		}(i)
	}
	wg.Wait()

	if tr, su := m.Len(); tr > 10 || su > 10 {
		t.Errorf("Len() = %d, %d, want at most 10 each", tr, su)
	}
}
