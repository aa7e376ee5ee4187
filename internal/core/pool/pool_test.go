package pool

import "testing"

type gem struct {
	Node
	value int
}

func newGemPool(warm int) *VisualPool[*gem] {
	return NewVisualPool("gem", warm, func() *gem { return &gem{value: 1} })
}

func TestPrewarmIsInactive(t *testing.T) {
	p := newGemPool(5)
	if p.Len() != 5 {
		t.Fatalf("Expected 5 pre-warmed entities, got %d", p.Len())
	}
	if p.ActiveCount() != 0 {
		t.Errorf("Expected no active entities after pre-warm, got %d", p.ActiveCount())
	}
}

func TestGrowsByExactlyOne(t *testing.T) {
	p := newGemPool(5)
	seen := make(map[*gem]bool)
	for i := 0; i < 6; i++ {
		g := p.GetEntity()
		if !g.Active() {
			t.Fatalf("GetEntity returned an inactive entity on call %d", i)
		}
		if seen[g] {
			t.Fatalf("GetEntity handed out %p twice while still active", g)
		}
		seen[g] = true
	}
	if p.Len() != 6 {
		t.Errorf("Expected container size 6, got %d", p.Len())
	}
	if p.ActiveCount() != 6 {
		t.Errorf("Expected 6 active entities, got %d", p.ActiveCount())
	}
}

func TestReleasedEntityIsReused(t *testing.T) {
	p := newGemPool(1)
	a := p.GetEntity()
	firstID := a.ID()
	a.Release()

	b := p.GetEntity()
	if a != b {
		t.Fatal("Expected the released entity to be lent out again")
	}
	if b.ID().Serial() != firstID.Serial() {
		t.Errorf("Expected serial %d to survive reuse, got %d", firstID.Serial(), b.ID().Serial())
	}
	if b.ID().Generation() != firstID.Generation()+1 {
		t.Errorf("Expected generation %d, got %d", firstID.Generation()+1, b.ID().Generation())
	}
	if p.Len() != 1 {
		t.Errorf("Expected no growth, got size %d", p.Len())
	}
}

func TestScanCompactsDestroyedSlots(t *testing.T) {
	p := newGemPool(0)
	a := p.GetEntity()
	b := p.GetEntity()
	c := p.GetEntity()
	a.Destroy()
	c.Release()

	got := p.GetEntity()
	if got != c {
		t.Fatal("Expected the released entity behind the destroyed slot")
	}
	if p.Len() != 2 {
		t.Errorf("Expected destroyed slot to be compacted, size %d", p.Len())
	}
	if !b.Active() {
		t.Error("Compaction must not touch live entities")
	}
}

func TestDisableAndDestroy(t *testing.T) {
	p := newGemPool(2)
	a := p.GetEntity()
	b := p.GetEntity()

	p.DisableAllEntities()
	if a.Active() || b.Active() {
		t.Fatal("Expected every entity inactive after DisableAllEntities")
	}
	if p.Len() != 2 {
		t.Errorf("DisableAllEntities must not shrink, size %d", p.Len())
	}

	p.Destroy()
	if p.Len() != 0 {
		t.Errorf("Expected empty container after Destroy, got %d", p.Len())
	}
	if !a.Destroyed() {
		t.Error("Expected owned entities to be destroyed")
	}
}

type burst interface{ Emit() int }

type spark struct{ n int }

func (s *spark) Emit() int { s.n++; return s.n }

func TestHandlePoolTypedRetrieval(t *testing.T) {
	hp := NewHandlePool("spark", 2, func() any { return &spark{} })

	b, h, ok := GetAs[burst](hp)
	if !ok {
		t.Fatal("Expected *spark to satisfy burst")
	}
	if b.Emit() != 1 {
		t.Error("Expected a fresh spark")
	}
	if hp.ActiveCount() != 1 {
		t.Errorf("Expected 1 active handle, got %d", hp.ActiveCount())
	}
	h.Release()

	if _, _, ok := GetAs[interface{ Missing() }](hp); ok {
		t.Error("Expected typed retrieval to fail for an unimplemented interface")
	}
	if hp.ActiveCount() != 0 {
		t.Errorf("Failed typed retrieval must release its handle, active=%d", hp.ActiveCount())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Declare(newGemPool(3)); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := r.Declare(newGemPool(1)); err == nil {
		t.Error("Expected duplicate declaration to fail")
	}
	if err := r.Declare(NewHandlePool("spark", 1, func() any { return &spark{} })); err != nil {
		t.Fatalf("Declare handles: %v", err)
	}

	vp, ok := Visual[*gem](r, "gem")
	if !ok {
		t.Fatal("Expected gem pool lookup to succeed")
	}
	vp.GetEntity()
	if _, ok := Visual[*gem](r, "spark"); ok {
		t.Error("Expected type mismatch lookup to fail")
	}
	if _, ok := Handles(r, "spark"); !ok {
		t.Error("Expected handle pool lookup to succeed")
	}

	r.DisableAll()
	if vp.ActiveCount() != 0 {
		t.Errorf("Expected DisableAll to deactivate, active=%d", vp.ActiveCount())
	}
	if names := r.Names(); len(names) != 2 || names[0] != "gem" || names[1] != "spark" {
		t.Errorf("Unexpected names %v", names)
	}
	r.DestroyAll()
	if _, ok := r.Lookup("gem"); ok {
		t.Error("Expected registry to be empty after DestroyAll")
	}
}
