package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func useArrayKeyring(t *testing.T) {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	prev := open
	open = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { open = prev })
}

func TestSetGetDelete(t *testing.T) {
	useArrayKeyring(t)

	if err := Set("cep-token", "abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := Get("cep-token")
	if err != nil || got != "abc123" {
		t.Fatalf("get = %q, %v", got, err)
	}

	if err := Delete("cep-token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := Get("cep-token"); !errors.Is(err, keyring.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestOptional(t *testing.T) {
	useArrayKeyring(t)

	if v, err := Optional(""); v != "" || err != nil {
		t.Fatalf("empty key: %q, %v", v, err)
	}
	if v, err := Optional("missing"); v != "" || err != nil {
		t.Fatalf("missing key: %q, %v", v, err)
	}
	if err := Set("cep-token", "xyz"); err != nil {
		t.Fatal(err)
	}
	if v, err := Optional("cep-token"); v != "xyz" || err != nil {
		t.Fatalf("present key: %q, %v", v, err)
	}
}

func TestOptionalWithoutKeyring(t *testing.T) {
	prev := open
	open = func() (keyring.Keyring, error) { return nil, errors.New("no backend") }
	t.Cleanup(func() { open = prev })

	if v, err := Optional("cep-token"); v != "" || err != nil {
		t.Fatalf("unavailable keyring should read as absent: %q, %v", v, err)
	}
}
