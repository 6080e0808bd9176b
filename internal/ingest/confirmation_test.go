package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/fernet/fernet-go"
)

func newTestKey(t *testing.T) string {
	t.Helper()
	var k fernet.Key
	if err := k.Generate(); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return k.Encode()
}

func TestNewConfirmation(t *testing.T) {
	claim := &Claim{Name: "t4.json", CorrelationID: "0f8fad5b-d9cb-469f-a165-70867728950e"}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	conf := newConfirmation(claim, []byte("[]"), Result{Records: 2, Inserted: 1, Duplicates: 1}, now)

	// sha256("[]")
	const want = "4f53cda18c2baa0c0354bb5f9a3ecbe5ed12ab4d8e11ba873c2f11161202b945"
	if conf.SHA256 != want {
		t.Errorf("Expected checksum %s, got %s", want, conf.SHA256)
	}
	if conf.CorrelationID != claim.CorrelationID || conf.FileName != "t4.json" {
		t.Errorf("Unexpected identity %+v", conf)
	}
	if conf.Records != 2 || conf.Inserted != 1 || conf.Duplicates != 1 {
		t.Errorf("Unexpected counts %+v", conf)
	}
	if !conf.ProcessedAt.Equal(now) {
		t.Errorf("Expected processedAt %v, got %v", now, conf.ProcessedAt)
	}
}

func TestSealer(t *testing.T) {
	t.Run("sealed confirmation verifies", func(t *testing.T) {
		sealer, err := NewSealer(newTestKey(t))
		if err != nil {
			t.Fatalf("Failed to create sealer: %v", err)
		}
		conf := &Confirmation{CorrelationID: "abc", SHA256: "deadbeef"}

		if err := sealer.Seal(conf); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if conf.Token == "" {
			t.Fatal("Expected token to be set")
		}
		if err := sealer.Verify(conf); err != nil {
			t.Errorf("Expected token to verify, got %v", err)
		}
	})

	t.Run("tampered checksum fails", func(t *testing.T) {
		sealer, err := NewSealer(newTestKey(t))
		if err != nil {
			t.Fatalf("Failed to create sealer: %v", err)
		}
		conf := &Confirmation{CorrelationID: "abc", SHA256: "deadbeef"}
		if err := sealer.Seal(conf); err != nil {
			t.Fatalf("Failed to seal: %v", err)
		}

		conf.SHA256 = "cafebabe"
		if err := sealer.Verify(conf); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("other key fails", func(t *testing.T) {
		sealer, _ := NewSealer(newTestKey(t))
		other, _ := NewSealer(newTestKey(t))
		conf := &Confirmation{CorrelationID: "abc", SHA256: "deadbeef"}
		if err := sealer.Seal(conf); err != nil {
			t.Fatalf("Failed to seal: %v", err)
		}

		if err := other.Verify(conf); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("invalid key is rejected", func(t *testing.T) {
		if _, err := NewSealer("not-a-key"); err == nil {
			t.Error("Expected error for invalid key")
		}
	})
}
