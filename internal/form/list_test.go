package form

import (
	"errors"
	"fmt"
	"testing"
)

func keys[T Record](list []T) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, item.Key())
	}
	return out
}

func TestAppendDoesNotTouchInput(t *testing.T) {
	list := []ServiceLine{{ID: "a"}}
	out := Append(list, ServiceLine{ID: "b"})

	if len(list) != 1 {
		t.Fatalf("input changed, len %d", len(list))
	}
	if fmt.Sprint(keys(out)) != "[a b]" {
		t.Errorf("unexpected order %v", keys(out))
	}
}

func TestRemoveKeepsRelativeOrder(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for removed := 0; removed < n; removed++ {
			var list []ServiceLine
			for i := 0; i < n; i++ {
				list = Append(list, ServiceLine{ID: fmt.Sprintf("s%d", i)})
			}

			out := Remove(list, fmt.Sprintf("s%d", removed))
			if len(out) != n-1 {
				t.Fatalf("n=%d removed=%d: expected %d lines, got %d", n, removed, n-1, len(out))
			}

			var want []string
			for i := 0; i < n; i++ {
				if i != removed {
					want = append(want, fmt.Sprintf("s%d", i))
				}
			}
			if fmt.Sprint(keys(out)) != fmt.Sprint(want) {
				t.Errorf("n=%d removed=%d: expected %v, got %v", n, removed, want, keys(out))
			}
			if len(list) != n {
				t.Errorf("input list was modified")
			}
		}
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	list := []DeliveryLine{{ID: "a"}, {ID: "b"}}
	out := Remove(list, "zzz")
	if fmt.Sprint(keys(out)) != "[a b]" {
		t.Errorf("expected unchanged list, got %v", keys(out))
	}
}

func TestUpdateField(t *testing.T) {
	list := []ServiceLine{{ID: "a"}, {ID: "b", Volume: "1"}}

	out, err := UpdateField(list, "b", FieldVolume, "3m3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[1].Volume != "3m3" {
		t.Errorf("expected volume 3m3, got %q", out[1].Volume)
	}
	if list[1].Volume != "1" {
		t.Errorf("input item was mutated")
	}
	if fmt.Sprint(keys(out)) != "[a b]" {
		t.Errorf("order changed: %v", keys(out))
	}

	same, err := UpdateField(list, "missing", FieldVolume, "x")
	if err != nil {
		t.Fatalf("absent id should not fail: %v", err)
	}
	if same[1].Volume != "1" {
		t.Errorf("absent id changed the list")
	}

	_, err = UpdateField(list, "a", "peso", "10")
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestDeliveryOKAcceptsOnlySimOrNao(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{DeliveryOKYes, false},
		{DeliveryOKNo, false},
		{"talvez", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := NewDeliveryLine().WithField(FieldDeliveryOK, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("value %q: err = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("expected ErrInvalidValue, got %v", err)
			}
		})
	}
}
