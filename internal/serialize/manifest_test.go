package serialize

import (
	"errors"
	"reflect"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/hugr-lab/udf-go/sig"
)

func TestManifestRoundTrip(t *testing.T) {
	reg := sig.NewRegistry()
	sigs := []sig.Sig{
		{Name: "add_one", ArgTypes: []string{"int32"}, ReturnType: "int32"},
		{Name: "upper", ArgTypes: []string{"utf8"}, ReturnType: "utf8"},
	}
	fn := func(input arrow.RecordBatch) (arrow.Array, error) {
		return nil, errors.New("not implemented")
	}
	for _, s := range sigs {
		if err := reg.Register(s, fn); err != nil {
			t.Fatalf("Register %s failed: %v", s.Name, err)
		}
	}

	encoded, err := EncodeManifest(reg)
	if err != nil {
		t.Fatalf("EncodeManifest failed: %v", err)
	}

	got, err := DecodeManifest(encoded)
	if err != nil {
		t.Fatalf("DecodeManifest failed: %v", err)
	}
	if !reflect.DeepEqual(got, sigs) {
		t.Errorf("round trip returned %+v, want %+v", got, sigs)
	}
}

func TestDecodeManifestRejectsGarbage(t *testing.T) {
	if _, err := DecodeManifest([]byte("not zstd")); err == nil {
		t.Error("expected error for invalid payload")
	}
}
