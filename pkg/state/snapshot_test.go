package state

import (
	"testing"
)

func TestSnapshotDiffDetectsModification(t *testing.T) {
	before := NewSnapshot(map[string]Value{"count": Int(1)})
	after := NewSnapshot(map[string]Value{"count": Int(2)})

	changes := before.Diff(after)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.FieldName != "count" {
		t.Errorf("expected field count, got %s", c.FieldName)
	}
	if c.OldValue == nil || !c.OldValue.Equal(Int(1)) {
		t.Errorf("expected old value Int(1), got %v", c.OldValue)
	}
	if !c.NewValue.Equal(Int(2)) {
		t.Errorf("expected new value Int(2), got %v", c.NewValue)
	}
}

func TestSnapshotDiffDetectsAdditionAndRemoval(t *testing.T) {
	before := NewSnapshot(map[string]Value{"name": String("a")})
	after := NewSnapshot(map[string]Value{"title": String("b")})

	changes := before.Diff(after)

	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}

	byField := map[string]Change{}
	for _, c := range changes {
		byField[c.FieldName] = c
	}

	added, ok := byField["title"]
	if !ok || added.OldValue != nil || !added.NewValue.Equal(String("b")) {
		t.Errorf("expected title added with no old value, got %+v", added)
	}

	removed, ok := byField["name"]
	if !ok || removed.OldValue == nil || !removed.NewValue.Equal(Null()) {
		t.Errorf("expected name removed with Null new value, got %+v", removed)
	}
}

func TestSnapshotDiffIsPure(t *testing.T) {
	before := NewSnapshot(map[string]Value{"a": Int(1), "b": String("x")})
	after := NewSnapshot(map[string]Value{"a": Int(2)})

	beforeHash := before.Hash
	afterHash := after.Hash
	_ = before.Diff(after)
	_ = after.Diff(before)

	if before.Hash != beforeHash || before.Len() != 2 {
		t.Error("diff mutated the receiver snapshot")
	}
	if after.Hash != afterHash || after.Len() != 1 {
		t.Error("diff mutated the argument snapshot")
	}
}

func TestSnapshotHashIgnoresInsertionOrder(t *testing.T) {
	a := map[string]Value{}
	a["x"] = Int(1)
	a["y"] = Int(2)
	a["z"] = Int(3)

	b := map[string]Value{}
	b["z"] = Int(3)
	b["x"] = Int(1)
	b["y"] = Int(2)

	if NewSnapshot(a).Hash != NewSnapshot(b).Hash {
		t.Error("snapshots of equal maps must hash identically")
	}
}

func TestSnapshotHashDistinguishesKinds(t *testing.T) {
	// Same bytes, different kind tags.
	s1 := NewSnapshot(map[string]Value{"v": Int(1)})
	s2 := NewSnapshot(map[string]Value{"v": Bool(true)})
	if s1.Hash == s2.Hash {
		t.Error("values of different kinds should not collide trivially")
	}

	s3 := NewSnapshot(map[string]Value{"v": Null()})
	s4 := NewSnapshot(map[string]Value{"v": String("")})
	if s3.Hash == s4.Hash {
		t.Error("null and empty string should not collide trivially")
	}
}

func TestSnapshotImmutableFromCaller(t *testing.T) {
	fields := map[string]Value{"count": Int(1)}
	s := NewSnapshot(fields)

	// Mutating the caller's map must not affect the snapshot.
	fields["count"] = Int(99)
	fields["extra"] = Int(1)

	v, ok := s.Field("count")
	if !ok || !v.Equal(Int(1)) {
		t.Errorf("snapshot field changed under caller mutation: %v", v)
	}
	if s.Len() != 1 {
		t.Errorf("snapshot grew under caller mutation: %d fields", s.Len())
	}
}

func TestValueEquality(t *testing.T) {
	if !Array(Int(1), String("a")).Equal(Array(Int(1), String("a"))) {
		t.Error("equal arrays must compare equal")
	}
	if Array(Int(1)).Equal(Array(Int(2))) {
		t.Error("different arrays must not compare equal")
	}
	obj := map[string]Value{"k": Float(1.5)}
	if !Object(obj).Equal(Object(obj)) {
		t.Error("equal objects must compare equal")
	}
	if Int(1).Equal(Float(1)) {
		t.Error("int and float must not compare equal")
	}
	if !Null().Equal(Null()) {
		t.Error("null equals null")
	}
}
