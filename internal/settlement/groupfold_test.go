package settlement

import (
	"errors"
	"strings"
	"testing"
)

type foldRow struct {
	group string
	value int
}

func TestGroupFoldHooksFireInOrder(t *testing.T) {
	rows := []foldRow{
		{"a", 1}, {"a", 2},
		{"b", 3},
		{"c", 4}, {"c", 5}, {"c", 6},
	}

	var trace []string
	fold := GroupFold[foldRow, string]{
		Key: func(r foldRow) string { return r.group },
		OnGroupStart: func(r foldRow) error {
			trace = append(trace, "start:"+r.group)
			return nil
		},
		OnRow: func(r foldRow) error {
			trace = append(trace, "row:"+r.group)
			return nil
		},
		OnGroupEnd: func(r foldRow) error {
			trace = append(trace, "end:"+r.group)
			return nil
		},
	}
	if err := fold.Run(rows); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := "start:a,row:a,row:a,end:a,start:b,row:b,end:b,start:c,row:c,row:c,row:c,end:c"
	if got := strings.Join(trace, ","); got != want {
		t.Fatalf("trace = %s, want %s", got, want)
	}
}

func TestGroupFoldAccumulatesPerGroup(t *testing.T) {
	rows := []foldRow{{"a", 1}, {"a", 2}, {"b", 10}}

	sums := map[string]int{}
	var current int
	fold := GroupFold[foldRow, string]{
		Key:          func(r foldRow) string { return r.group },
		OnGroupStart: func(r foldRow) error { current = 0; return nil },
		OnRow:        func(r foldRow) error { current += r.value; return nil },
		OnGroupEnd:   func(r foldRow) error { sums[r.group] = current; return nil },
	}
	if err := fold.Run(rows); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sums["a"] != 3 || sums["b"] != 10 {
		t.Fatalf("sums = %v, want a=3 b=10", sums)
	}
}

func TestGroupFoldStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	fold := GroupFold[foldRow, string]{
		Key: func(r foldRow) string { return r.group },
		OnRow: func(r foldRow) error {
			calls++
			if r.value == 2 {
				return boom
			}
			return nil
		},
	}
	err := fold.Run([]foldRow{{"a", 1}, {"a", 2}, {"a", 3}})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 2 {
		t.Fatalf("rows visited = %d, want 2", calls)
	}
}

func TestGroupFoldEmptyInput(t *testing.T) {
	fold := GroupFold[foldRow, string]{
		Key:        func(r foldRow) string { return r.group },
		OnGroupEnd: func(r foldRow) error { t.Fatal("must not fire"); return nil },
	}
	if err := fold.Run(nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}
