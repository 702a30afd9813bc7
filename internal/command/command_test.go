package command

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"ctodo/internal/entry"
	"ctodo/internal/store"
)

func utcDue(text string) (int64, error) {
	return entry.ParseDue(text, time.UTC)
}

func TestParseModArgs(t *testing.T) {
	got, err := ParseModArgs([]string{"desc=buy oat milk", "group=home", "group=errands"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		store.FieldDescription: "buy oat milk",
		store.FieldGroup:       "errands",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseModArgsRejects(t *testing.T) {
	cases := map[string][]string{
		"no tokens":     {},
		"no equals":     {"desc"},
		"two equals":    {"desc=a=b"},
		"leading":       {"=value"},
		"trailing":      {"desc="},
		"unknown field": {"priority=high"},
		"id not a key":  {"id=3"},
	}
	for name, tokens := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseModArgs(tokens); !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestConstructorsValidateArgs(t *testing.T) {
	if _, err := NewAdd([]string{"work", "9/21/2021 11:59 pm"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("add: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewDelete(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("del: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewDelete([]string{"-1"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("del -1: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewModify([]string{"abc", "desc=x"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("mod abc: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewModify([]string{"2"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("mod without fields: expected ErrInvalidArgument, got %v", err)
	}

	m, err := NewModify([]string{"2", "desc=buy oat milk"})
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != 2 || m.Updates[store.FieldDescription] != "buy oat milk" {
		t.Fatalf("unexpected modify %+v", m)
	}
}

func TestApplyAdd(t *testing.T) {
	st := store.New([]entry.Entry{{ID: 7, Group: "work"}})
	res, err := Apply(Add{Group: "home", DueText: "1/2/2024 9:05 am", Desc: "buy milk"}, st, utcDue)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Save || !res.HasEntry || res.Entry.ID != 8 {
		t.Fatalf("unexpected result %+v", res)
	}
	if st.Len() != 2 || st.Entries()[1].Due != time.Date(2024, 1, 2, 9, 5, 0, 0, time.UTC).Unix() {
		t.Fatalf("unexpected store %+v", st.Entries())
	}
}

func TestApplyAddRejectsBeforeMutating(t *testing.T) {
	st := store.New(nil)
	if _, err := Apply(Add{Group: "home", DueText: "someday", Desc: "x"}, st, utcDue); !errors.Is(err, entry.ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
	if _, err := Apply(Add{Group: "a,b", DueText: "1/2/2024 9:05 am", Desc: "x"}, st, utcDue); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("store mutated: %+v", st.Entries())
	}
}

func TestApplyModifyOnlyTouchesGivenField(t *testing.T) {
	before := entry.Entry{ID: 2, Group: "home", Due: 1700500000, Desc: "buy milk"}
	st := store.New([]entry.Entry{{ID: 1, Group: "work", Due: 1700000000, Desc: "finish report"}, before})
	cmd, err := NewModify([]string{"2", "desc=buy oat milk"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(cmd, st, utcDue); err != nil {
		t.Fatal(err)
	}
	after := st.Entries()[1]
	if after.Group != before.Group || after.Due != before.Due || after.Desc != "buy oat milk" {
		t.Fatalf("unexpected entry %+v", after)
	}
}

func TestApplyModifyRejectsDelimiterInGroup(t *testing.T) {
	st := store.New([]entry.Entry{{ID: 1, Group: "work"}})
	_, err := Apply(Modify{ID: 1, Updates: map[string]string{store.FieldGroup: "a,b"}}, st, utcDue)
	if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, entry.ErrUnencodable) {
		t.Fatalf("expected ErrInvalidArgument wrapping ErrUnencodable, got %v", err)
	}
}

func TestApplyDeleteAndReindex(t *testing.T) {
	st := store.New([]entry.Entry{{ID: 5}, {ID: 1}, {ID: 9}})
	res, err := Apply(Delete{ID: 1}, st, utcDue)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Save || res.Entry.ID != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := Apply(Delete{ID: 1}, st, utcDue); !errors.Is(err, store.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	res, err = Apply(Reindex{}, st, utcDue)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Save || st.Entries()[0].ID != 0 || st.Entries()[1].ID != 1 {
		t.Fatalf("unexpected reindex result %+v / %+v", res, st.Entries())
	}
}

func TestApplyNonMutating(t *testing.T) {
	st := store.New([]entry.Entry{{ID: 1}})
	for _, cmd := range []Command{List{}, List{Sorted: true}, Init{}, Unrecognized{Name: "frobnicate"}} {
		res, err := Apply(cmd, st, utcDue)
		if err != nil {
			t.Fatalf("%T: %v", cmd, err)
		}
		if res.Save || Mutates(cmd) {
			t.Fatalf("%T must not mutate", cmd)
		}
	}
	if !Mutates(Reindex{}) || !Mutates(Add{}) {
		t.Fatal("expected Reindex and Add to mutate")
	}
}
