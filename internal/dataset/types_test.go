package dataset

import "testing"

func TestTypeDescriptor_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b TypeDescriptor
		want bool
	}{
		{"same scalar", Scalar("string"), Scalar("string"), true},
		{"different scalar", Scalar("string"), Scalar("int64"), false},
		{"scalar vs sequence", Scalar("string"), Sequence(Scalar("string")), false},
		{"same sequence", Sequence(Scalar("string")), Sequence(Scalar("string")), true},
		{"sequence elem differs", Sequence(Scalar("string")), Sequence(Scalar("int32")), false},
		{"nested sequence", Sequence(Sequence(Scalar("string"))), Sequence(Sequence(Scalar("string"))), true},
		{"nested vs flat", Sequence(Sequence(Scalar("string"))), Sequence(Scalar("string")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%s.Equal(%s)=%v want=%v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("%s.Equal(%s)=%v want=%v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestTypeDescriptor_String(t *testing.T) {
	tests := []struct {
		in   TypeDescriptor
		want string
	}{
		{Scalar("string"), "string"},
		{Sequence(Scalar("string")), "sequence<string>"},
		{Sequence(Sequence(Scalar("int64"))), "sequence<sequence<int64>>"},
		{TypeDescriptor{}, "?"},
		{TypeDescriptor{Kind: KindSequence}, "sequence<?>"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String()=%q want=%q", got, tt.want)
		}
	}
}

func TestColumns_AddKeepsOrderAndReplaces(t *testing.T) {
	cols := NewColumns().
		Add("question", Scalar("string")).
		Add("answer", Scalar("int64")).
		Add("answer", Scalar("string"))

	names := cols.ColumnNames()
	if len(names) != 2 || names[0] != "question" || names[1] != "answer" {
		t.Fatalf("ColumnNames()=%v", names)
	}
	got, ok := cols.ColumnType("answer")
	if !ok || !got.Equal(Scalar("string")) {
		t.Errorf("answer type=%s ok=%v, want string", got, ok)
	}
	if _, ok := cols.ColumnType("contexts"); ok {
		t.Error("contexts should be absent")
	}
}

func TestColumns_ColumnNamesIsCopy(t *testing.T) {
	cols := NewColumns().Add("question", Scalar("string"))
	names := cols.ColumnNames()
	names[0] = "mutated"
	if cols.ColumnNames()[0] != "question" {
		t.Fatal("ColumnNames exposed internal slice")
	}
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	_, err := Open("data.csv")
	if err == nil {
		t.Fatal("expected error for .csv")
	}
}
