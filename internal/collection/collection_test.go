package collection

import (
	"sync"
	"testing"
)

type rec struct {
	ID   int64
	Name string
}

func recID(r rec) int64 { return r.ID }

func names(rs []rec) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	c := New(recID, rec{3, "c"}, rec{1, "a"})
	c.Append(rec{2, "b"})

	got := names(c.All())
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := New(recID, rec{1, "a"})
	all := c.All()
	all[0].Name = "mutated"

	if r, _ := c.Find(1); r.Name != "a" {
		t.Fatalf("collection changed through All() result: %+v", r)
	}
}

func TestAppendUniqueRejectsDuplicate(t *testing.T) {
	c := New(recID, rec{1, "a"})

	if c.AppendUnique(rec{1, "dup"}) {
		t.Fatalf("expected duplicate to be rejected")
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	if !c.AppendUnique(rec{2, "b"}) {
		t.Fatalf("expected new id to be accepted")
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
}

func TestFirstMatchWins(t *testing.T) {
	c := New(recID, rec{1, "first"}, rec{1, "second"})

	if _, ok := c.Replace(1, rec{1, "replaced"}); !ok {
		t.Fatalf("expected match")
	}
	got := names(c.All())
	if got[0] != "replaced" || got[1] != "second" {
		t.Fatalf("replace touched wrong record: %v", got)
	}

	if removed, ok := c.Remove(1); !ok || removed.Name != "replaced" {
		t.Fatalf("remove = %+v, %v", removed, ok)
	}
	got = names(c.All())
	if len(got) != 1 || got[0] != "second" {
		t.Fatalf("after remove: %v", got)
	}
}

func TestReplaceMayChangeID(t *testing.T) {
	c := New(recID, rec{1, "a"}, rec{2, "b"})

	if _, ok := c.Replace(1, rec{2, "drifted"}); !ok {
		t.Fatalf("expected match")
	}
	if _, ok := c.Find(1); ok {
		t.Fatalf("id 1 should be gone after drift")
	}
	if r, _ := c.Find(2); r.Name != "drifted" {
		t.Fatalf("first id 2 = %+v, want drifted", r)
	}
}

func TestMissingID(t *testing.T) {
	c := New(recID, rec{1, "a"})

	if _, ok := c.Replace(9, rec{9, "x"}); ok {
		t.Fatalf("replace on missing id should fail")
	}
	if _, ok := c.Update(9, func(r rec) rec { return r }); ok {
		t.Fatalf("update on missing id should fail")
	}
	if _, ok := c.Remove(9); ok {
		t.Fatalf("remove on missing id should fail")
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}

func TestUpdateAppliesFunc(t *testing.T) {
	c := New(recID, rec{1, "a"})
	got, ok := c.Update(1, func(r rec) rec {
		r.Name += "!"
		return r
	})
	if !ok || got.Name != "a!" {
		t.Fatalf("update = %+v, %v", got, ok)
	}
}

func TestConcurrentAppendUnique(t *testing.T) {
	c := New(recID)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.AppendUnique(rec{7, "same"}) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 || c.Len() != 1 {
		t.Fatalf("accepted=%d len=%d, want exactly one", accepted, c.Len())
	}
}
