package security

import (
	"errors"
	"testing"
)

func TestSealerRoundTrip(t *testing.T) {
	t.Parallel()

	sealer, err := NewSealer([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewSealer returned error: %v", err)
	}

	sealed, err := sealer.Seal("impersonation", []byte(`{"target":"x"}`))
	if err != nil {
		t.Fatalf("Seal returned error: %v", err)
	}
	opened, err := sealer.Open("impersonation", sealed)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if string(opened) != `{"target":"x"}` {
		t.Fatalf("opened = %q", opened)
	}
}

func TestSealerRejectsOtherPurposeAndTampering(t *testing.T) {
	t.Parallel()

	sealer, err := NewSealer([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewSealer returned error: %v", err)
	}
	sealed, err := sealer.Seal("impersonation", []byte("payload"))
	if err != nil {
		t.Fatalf("Seal returned error: %v", err)
	}

	if _, err := sealer.Open("other", sealed); !errors.Is(err, ErrSealedValueInvalid) {
		t.Fatalf("expected ErrSealedValueInvalid for other purpose, got %v", err)
	}

	middle := len(sealed) / 2
	replacement := "A"
	if sealed[middle] == 'A' {
		replacement = "B"
	}
	tampered := sealed[:middle] + replacement + sealed[middle+1:]
	if _, err := sealer.Open("impersonation", tampered); !errors.Is(err, ErrSealedValueInvalid) {
		t.Fatalf("expected ErrSealedValueInvalid for tampered value, got %v", err)
	}

	for _, raw := range []string{"", "v2.abc", "v1.", "v1.!!!"} {
		if _, err := sealer.Open("impersonation", raw); !errors.Is(err, ErrSealedValueInvalid) {
			t.Fatalf("Open(%q) expected ErrSealedValueInvalid, got %v", raw, err)
		}
	}
}

func TestSealerKeysAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	first, err := NewSealer([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewSealer returned error: %v", err)
	}
	second, err := NewSealer([]byte("fedcba9876543210fedcba9876543210"))
	if err != nil {
		t.Fatalf("NewSealer returned error: %v", err)
	}

	sealed, err := first.Seal("impersonation", []byte("payload"))
	if err != nil {
		t.Fatalf("Seal returned error: %v", err)
	}
	if _, err := second.Open("impersonation", sealed); !errors.Is(err, ErrSealedValueInvalid) {
		t.Fatalf("expected ErrSealedValueInvalid across keys, got %v", err)
	}
	if _, err := NewSealer(nil); err == nil {
		t.Fatal("expected error for empty key")
	}
}
